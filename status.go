package ferry

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// HTTPStatus is an HTTP status code. Its canonical text is the code followed
// by the reason phrase, e.g. "404 Not Found".
type HTTPStatus int

// String returns the code and reason phrase. Codes without a registered
// reason render as the bare number.
func (s HTTPStatus) String() string {
	if text := http.StatusText(int(s)); text != "" {
		return strconv.Itoa(int(s)) + " " + text
	}
	return strconv.Itoa(int(s))
}

// Reason returns the reason phrase, or "" for unregistered codes.
func (s HTTPStatus) Reason() string {
	return http.StatusText(int(s))
}

// ParseHTTPStatus parses the canonical form produced by String. A bare code
// is accepted too.
func ParseHTTPStatus(s string) (HTTPStatus, error) {
	code, _, _ := strings.Cut(strings.TrimSpace(s), " ")
	n, err := strconv.Atoi(code)
	if err != nil || n < 100 || n > 999 {
		return 0, fmt.Errorf("invalid http status %q", s)
	}
	return HTTPStatus(n), nil
}
