package returnstatus

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
	PendingApproval Status
	Approved        Status
	Rejected        Status
	Processed       Status
}

var Statuses = Enum{
	PendingApproval: "pending_approval",
	Approved:        "approved",
	Rejected:        "rejected",
	Processed:       "processed",
}

var All = []Status{
	Statuses.PendingApproval,
	Statuses.Approved,
	Statuses.Rejected,
	Statuses.Processed,
}

// ByName returns the return status for a given name, or nil if not found
func ByName(name string) *Status {
	for _, s := range All {
		if string(s) == name {
			return &s
		}
	}
	return nil
}
