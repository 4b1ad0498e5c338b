//go:generate mockgen -source=../order_store.go -destination=./mock_order_store.go -package=mocks
//go:generate mockgen -source=../order_cache.go  -destination=./mock_order_cache.go  -package=mocks
//go:generate mockgen -source=../validator.go    -destination=./mock_validator.go    -package=mocks
//go:generate mockgen -source=../state_store.go  -destination=./mock_state_store.go  -package=mocks
//go:generate mockgen -source=../events.go       -destination=./mock_events.go       -package=mocks
//go:generate mockgen -source=../order_repository.go -destination=./mock_order_repository.go -package=mocks

package mocks
