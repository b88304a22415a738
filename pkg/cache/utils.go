package cache

import (
	"fmt"
	"strings"
)

// GenerateKey joins a namespace and an identifier: "detail:us:AAPL".
func GenerateKey(prefix string, id string) string {
	return prefix + ":" + id
}

// GenerateKeyWithParams appends each param to prefix, colon separated.
func GenerateKeyWithParams(prefix string, params ...interface{}) string {
	var b strings.Builder
	b.WriteString(prefix)
	for _, p := range params {
		b.WriteByte(':')
		fmt.Fprint(&b, p)
	}
	return b.String()
}

// Namespace is the key segment before the first colon, used as the metrics label.
func Namespace(key string) string {
	ns, _, _ := strings.Cut(key, ":")
	return ns
}
