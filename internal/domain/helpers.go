package domain

import "strconv"

func itoa(v int) string { return strconv.Itoa(v) }

// CloneOrders — копия среза заказов; значения Order не содержат общих ссылок.
func CloneOrders(src []Order) []Order {
	if src == nil {
		return nil
	}
	return append([]Order(nil), src...)
}
