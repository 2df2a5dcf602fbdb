package models

// Stats counts the nodes of a document by kind.
type Stats struct {
	Objects   int `json:"objects"`
	Arrays    int `json:"arrays"`
	Strings   int `json:"strings"`
	Numbers   int `json:"numbers"`
	Booleans  int `json:"booleans"`
	Nulls     int `json:"nulls"`
	TotalKeys int `json:"totalKeys"`
	MaxDepth  int `json:"maxDepth"`
}

// CountStats walks v and tallies every node. The root sits at depth 0.
func CountStats(v *Value) Stats {
	var s Stats
	if v != nil {
		s.count(v, 0)
	}
	return s
}

func (s *Stats) count(v *Value, depth int) {
	if depth > s.MaxDepth {
		s.MaxDepth = depth
	}
	switch v.kind {
	case KindNull:
		s.Nulls++
	case KindBool:
		s.Booleans++
	case KindNumber:
		s.Numbers++
	case KindString:
		s.Strings++
	case KindArray:
		s.Arrays++
		for _, item := range v.items {
			s.count(item, depth+1)
		}
	case KindObject:
		s.Objects++
		s.TotalKeys += len(v.fields)
		for _, f := range v.fields {
			s.count(f.Value, depth+1)
		}
	}
}
