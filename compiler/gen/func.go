package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
)

var (
	rules    = ruleset()
	initials = make(map[string]struct{})
)

func ruleset() *inflect.Ruleset {
	rules := inflect.NewDefaultRuleset()
	// Add common initialisms from golint and more.
	for _, w := range []string{
		"ACL", "API", "ASCII", "AWS", "CPU", "CSS", "DNS", "EOF", "GB", "GUID",
		"HCL", "HTML", "HTTP", "HTTPS", "ID", "IP", "JSON", "KB", "LHS", "MAC",
		"MB", "QPS", "RAM", "RHS", "RPC", "SLA", "SMTP", "SQL", "SSH", "SSO",
		"TCP", "TLS", "TTL", "UDP", "UI", "UID", "URI", "URL", "UTF8", "UUID",
		"VM", "XML", "XMPP", "XSRF", "XSS",
	} {
		initials[w] = struct{}{}
		rules.AddAcronym(w)
	}
	return rules
}

// Naming converts schema names into Go identifiers. Acronyms are
// upper-cased as a whole (erp_code => ERPCode) on top of the common
// initialisms. A nil *Naming knows the common initialisms only.
type Naming struct {
	acronyms map[string]struct{}
}

// NewNaming returns a Naming with the given extra acronyms.
func NewNaming(acronyms ...string) *Naming {
	n := &Naming{acronyms: make(map[string]struct{}, len(acronyms))}
	for _, a := range acronyms {
		if a = strings.TrimSpace(a); a != "" {
			n.acronyms[strings.ToUpper(a)] = struct{}{}
		}
	}
	return n
}

func (n *Naming) acronym(upper string) bool {
	if _, ok := initials[upper]; ok {
		return true
	}
	if n == nil {
		return false
	}
	_, ok := n.acronyms[upper]
	return ok
}

// Pascal converts the given name into PascalCase.
//
//	user_info 	=> UserInfo
//	full_name 	=> FullName
//	user_id   	=> UserID
//	full-admin	=> FullAdmin
func (n *Naming) Pascal(s string) string {
	return n.pascalWords(strings.FieldsFunc(s, isSeparator))
}

// Camel converts the given name into camelCase.
//
//	user_info  => userInfo
//	user_id    => userID
//	full-admin => fullAdmin
func (n *Naming) Camel(s string) string {
	words := strings.FieldsFunc(s, isSeparator)
	switch len(words) {
	case 0:
		return ""
	case 1:
		return strings.ToLower(words[0][:1]) + words[0][1:]
	}
	return strings.ToLower(words[0]) + n.pascalWords(words[1:])
}

func isSeparator(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}

func (n *Naming) pascalWords(words []string) string {
	for i, w := range words {
		if upper := strings.ToUpper(w); n.acronym(upper) {
			words[i] = upper
		} else {
			words[i] = rules.Capitalize(w)
		}
	}
	return strings.Join(words, "")
}

// snake converts the given struct or field name into a snake_case.
//
//	Username => username
//	FullName => full_name
//	HTTPCode => http_code
func snake(s string) string {
	var (
		j int
		b strings.Builder
	)
	for i := 0; i < len(s); i++ {
		r := rune(s[i])
		// Put '_' if it is not a start or end of a word, current letter is uppercase,
		// and previous is lowercase (cases like: "UserInfo"), or next letter is also
		// a lowercase and previous letter is not "_".
		if i > 0 && i < len(s)-1 && unicode.IsUpper(r) {
			if unicode.IsLower(rune(s[i-1])) ||
				j != i-1 && unicode.IsLower(rune(s[i+1])) && unicode.IsLetter(rune(s[i-1])) {
				j = i
				b.WriteString("_")
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}

// plural a name.
func plural(name string) string {
	p := rules.Pluralize(name)
	if p == name {
		p += "Slice"
	}
	return p
}
