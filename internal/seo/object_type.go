package seo

import (
	"errors"
	"fmt"
)

// ObjectType identifies the kind of content entity an indexable summarizes.
type ObjectType int

const (
	ObjectTypeUnknown ObjectType = iota
	ObjectTypePost
	ObjectTypeTerm
	ObjectTypeUser
	ObjectTypeHomePage
	ObjectTypeDateArchive
	ObjectTypePostTypeArchive
	ObjectTypeSystemPage
)

// ErrUnknownObjectType is returned by ParseObjectType for unrecognised tags.
var ErrUnknownObjectType = errors.New("unknown object type")

var objectTypeNames = map[ObjectType]string{
	ObjectTypePost:            "post",
	ObjectTypeTerm:            "term",
	ObjectTypeUser:            "user",
	ObjectTypeHomePage:        "home-page",
	ObjectTypeDateArchive:     "date-archive",
	ObjectTypePostTypeArchive: "post-type-archive",
	ObjectTypeSystemPage:      "system-page",
}

// String returns the tag stored in the indexables table.
func (t ObjectType) String() string {
	if name, ok := objectTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseObjectType maps a stored tag back to its ObjectType.
func ParseObjectType(s string) (ObjectType, error) {
	for t, name := range objectTypeNames {
		if name == s {
			return t, nil
		}
	}
	return ObjectTypeUnknown, fmt.Errorf("%w: %q", ErrUnknownObjectType, s)
}
