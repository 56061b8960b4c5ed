package seo

// DefaultBuilderVersion is the schema version for object types without their own entry.
const DefaultBuilderVersion = 1

// builderVersions is bumped whenever a builder starts producing different
// output, so stale records can be found and rebuilt.
var builderVersions = map[ObjectType]int{
	ObjectTypeUser: 2,
}

// BuilderVersion returns the current builder schema version for t.
func BuilderVersion(t ObjectType) int {
	if v, ok := builderVersions[t]; ok {
		return v
	}
	return DefaultBuilderVersion
}
