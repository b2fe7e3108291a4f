package diagram

import (
	"regexp"
	"strings"
)

// ID is a syntax-safe node identifier derived from a display name.
// IDs are valid bare identifiers in the DOT language.
type ID string

const (
	nodePrefix    = "r_"
	clusterPrefix = "cluster_"
	groupPrefix   = "group_"
)

var nonAlnumRe = regexp.MustCompile(`[^a-z0-9]+`)

// normalize lower-cases name and collapses every run of characters outside
// [a-z0-9] into a single underscore.
func normalize(name string) string {
	return nonAlnumRe.ReplaceAllString(strings.ToLower(name), "_")
}

// IdentifierFor derives the node identifier for a display name.
//
// The result is "r_" followed by the normalized name, so "Service A" becomes
// "r_service_a". Names that normalize to the same sequence ("Service A",
// "service-a") share an identifier and are therefore the same node.
func IdentifierFor(name string) ID {
	return ID(nodePrefix + normalize(name))
}

// ContainerIdentifierFor derives the subgraph identifier for a group name.
// Graphviz draws a box around subgraphs whose name starts with "cluster_";
// plain groupings use the "group_" prefix and are not boxed.
func ContainerIdentifierFor(name string, cluster bool) string {
	if cluster {
		return clusterPrefix + normalize(name)
	}
	return groupPrefix + normalize(name)
}
