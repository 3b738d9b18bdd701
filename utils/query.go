package utils

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// QueryParam is one ordered key/value of a query string.
type QueryParam struct {
	Key   string
	Value string
}

func Param(key string, value any) QueryParam {
	switch v := value.(type) {
	case string:
		return QueryParam{Key: key, Value: v}
	case bool:
		return QueryParam{Key: key, Value: BoolString(v)}
	case int:
		return QueryParam{Key: key, Value: strconv.Itoa(v)}
	}
	return QueryParam{Key: key, Value: fmt.Sprint(value)}
}

// BoolString renders booleans the way the platform expects them.
func BoolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// WithQuery appends params to path keeping their order, unlike url.Values.
func WithQuery(path string, params ...QueryParam) string {
	if len(params) == 0 {
		return path
	}
	var sb strings.Builder
	sb.WriteString(path)
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	for _, p := range params {
		sb.WriteString(sep)
		sb.WriteString(url.QueryEscape(p.Key))
		sb.WriteByte('=')
		sb.WriteString(url.QueryEscape(p.Value))
		sep = "&"
	}
	return sb.String()
}
