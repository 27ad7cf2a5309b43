package walls

import "github.com/gogpu/wallgen"

// Indexed is a contour destined for the wall at Index.
type Indexed struct {
	Index   int
	Contour wallgen.Contour
}

// Changes turns a wall list into one that matches a contour list.
type Changes struct {
	// Created holds contours for new walls appended after the existing ones.
	Created []wallgen.Contour
	// Updated holds the new contour of every retained wall.
	Updated []Indexed
	// DeletedIDs holds the trailing walls to remove.
	DeletedIDs []string
}

// Diff matches walls to contours by position. Wall i keeps its identity and
// takes contour i; surplus contours become new walls and surplus walls are
// deleted from the end. Every retained wall is updated, changed or not.
func Diff(prev []string, next []wallgen.Contour) Changes {
	var ch Changes
	keep := min(len(prev), len(next))
	for i := range keep {
		ch.Updated = append(ch.Updated, Indexed{Index: i, Contour: next[i]})
	}
	if len(next) > keep {
		ch.Created = next[keep:]
	}
	if len(prev) > keep {
		ch.DeletedIDs = append([]string(nil), prev[keep:]...)
	}
	return ch
}
