package tlsscan

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidFilterArgument = errors.New("invalid filter argument")

// A Filter accepts or rejects a single cipher suite. Filters have no side
// effects, so the order they are applied in never changes which suites
// survive a Pipeline.
type Filter interface {
	Accept(suite CipherSuite) bool
	String() string
}

type Pipeline []Filter

// Apply keeps the suites accepted by every filter, in their original order.
// An empty pipeline returns its input untouched.
func (p Pipeline) Apply(suites []CipherSuite) []CipherSuite {
	if len(p) == 0 {
		return suites
	}

	for _, filter := range p {
		kept := make([]CipherSuite, 0, len(suites))
		for _, suite := range suites {
			if filter.Accept(suite) {
				kept = append(kept, suite)
			}
		}
		suites = kept
	}

	return suites
}

type attribute int

const (
	attributeAuthentication attribute = iota
	attributeEncryption
	attributeKeyExchange
	attributeMAC
)

func (a attribute) String() string {
	switch a {
	case attributeAuthentication:
		return "authentication"
	case attributeEncryption:
		return "encryption"
	case attributeKeyExchange:
		return "keyexchange"
	case attributeMAC:
		return "mac"
	default:
		return "unknown"
	}
}

func (a attribute) of(suite CipherSuite) string {
	switch a {
	case attributeAuthentication:
		return suite.Authentication
	case attributeEncryption:
		return suite.Encryption
	case attributeKeyExchange:
		return suite.KeyExchange
	case attributeMAC:
		return suite.MAC
	default:
		return ""
	}
}

type equalsFilter struct {
	attribute attribute
	value     string
}

func (f equalsFilter) Accept(suite CipherSuite) bool {
	return f.attribute.of(suite) == f.value
}

func (f equalsFilter) String() string {
	return fmt.Sprintf("%s == %s", f.attribute, f.value)
}

func AuthenticationFilter(label string) Filter {
	return equalsFilter{attribute: attributeAuthentication, value: label}
}

func EncryptionFilter(label string) Filter {
	return equalsFilter{attribute: attributeEncryption, value: label}
}

func KeyExchangeFilter(label string) Filter {
	return equalsFilter{attribute: attributeKeyExchange, value: label}
}

func MACFilter(label string) Filter {
	return equalsFilter{attribute: attributeMAC, value: label}
}

type Comparator int

const (
	Eq Comparator = iota
	Lt
	Le
	Ge
	Gt
)

func (c Comparator) String() string {
	switch c {
	case Eq:
		return "=="
	case Lt:
		return "<"
	case Le:
		return "<="
	case Ge:
		return ">="
	case Gt:
		return ">"
	default:
		return "?"
	}
}

func (c Comparator) Compare(a, b int) bool {
	switch c {
	case Lt:
		return a < b
	case Le:
		return a <= b
	case Ge:
		return a >= b
	case Gt:
		return a > b
	default:
		return a == b
	}
}

var bitsExpression = regexp.MustCompile(`^(<=|>=|<|>)?(\d+)$`)

func parseComparator(op string) Comparator {
	switch op {
	case "<":
		return Lt
	case "<=":
		return Le
	case ">=":
		return Ge
	case ">":
		return Gt
	default:
		return Eq
	}
}

type bitsFilter struct {
	comparator Comparator
	size       int
}

func (f bitsFilter) Accept(suite CipherSuite) bool {
	return f.comparator.Compare(suite.Bits, f.size)
}

func (f bitsFilter) String() string {
	return fmt.Sprintf("bits %s %d", f.comparator, f.size)
}

// BitsFilter parses expressions such as "128", "<128" or ">=256".
func BitsFilter(expr string) (Filter, error) {
	m := bitsExpression.FindStringSubmatch(strings.TrimSpace(expr))
	if m == nil {
		return nil, errors.Wrapf(ErrInvalidFilterArgument, "bits %q", expr)
	}

	size, err := strconv.Atoi(m[2])
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilterArgument, "bits %q", expr)
	}

	return bitsFilter{comparator: parseComparator(m[1]), size: size}, nil
}

type nameFilter struct {
	pattern *regexp.Regexp
}

func (f nameFilter) Accept(suite CipherSuite) bool {
	return f.pattern.MatchString(suite.Name)
}

func (f nameFilter) String() string {
	return fmt.Sprintf("name =~ /%s/", f.pattern)
}

// NameFilter matches the pattern anywhere in the suite name, case-sensitively.
func NameFilter(pattern string) (Filter, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidFilterArgument, "name %q: %s", pattern, err)
	}

	return nameFilter{pattern: re}, nil
}
