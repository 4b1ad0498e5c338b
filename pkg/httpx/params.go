package httpx

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// QueryInt — целое из query-параметра key; ok=false, если параметра нет.
// Пустое или нечисловое значение — ошибка.
func QueryInt(c *gin.Context, key string) (v int, ok bool, err error) {
	raw, ok := c.GetQuery(key)
	if !ok {
		return 0, false, nil
	}
	v, err = strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, true, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, true, nil
}
