package logging

import "strings"

// subject is the console prefix of a record: "extract[RAVDESS]", "convert",
// or the component name when no stage is attached.
type subject struct {
	component string
	stage     string
	dataset   string
}

func (s subject) String() string {
	head := strings.TrimSpace(s.stage)
	if head == "" {
		head = strings.TrimSpace(s.component)
	}
	if ds := strings.TrimSpace(s.dataset); ds != "" {
		if head == "" {
			return ds
		}
		return head + "[" + ds + "]"
	}
	return head
}
