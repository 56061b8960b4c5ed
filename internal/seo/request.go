package seo

import "fmt"

// RequestKind classifies the request a reaction is triggered from.
type RequestKind int

const (
	// RequestNavigational is a plain page load by a person.
	RequestNavigational RequestKind = iota
	RequestAJAX
	RequestREST
	RequestCron
)

func (k RequestKind) String() string {
	switch k {
	case RequestNavigational:
		return "navigational"
	case RequestAJAX:
		return "ajax"
	case RequestREST:
		return "rest"
	case RequestCron:
		return "cron"
	default:
		return fmt.Sprintf("RequestKind(%d)", int(k))
	}
}

// ParseRequestKind maps a name produced by RequestKind.String back to its kind.
func ParseRequestKind(s string) (RequestKind, error) {
	for _, k := range []RequestKind{RequestNavigational, RequestAJAX, RequestREST, RequestCron} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown request kind: %s", s)
}

// Request carries the ambient facts about the current request.
type Request struct {
	Kind RequestKind
}

// Navigational reports whether the request is a plain page load.
func (r Request) Navigational() bool {
	return r.Kind == RequestNavigational
}
