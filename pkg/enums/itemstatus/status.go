package itemstatus

import "strings"

type Status string

func (s Status) Code() string {
	return string(s)
}

func (s Status) Label() string {
	parts := strings.Split(string(s), "_")
	for i := range parts {
		if len(parts[i]) > 0 {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, " ")
}

type Enum struct {
	Pending    Status
	Assigned   Status
	InProgress Status
	Completed  Status
}

var Statuses = Enum{
	Pending:    "pending",
	Assigned:   "assigned",
	InProgress: "in_progress",
	Completed:  "completed",
}

var All = []Status{
	Statuses.Pending,
	Statuses.Assigned,
	Statuses.InProgress,
	Statuses.Completed,
}

// ByName returns the item status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if string(s) == name {
			return &s
		}
	}
	return nil
}
