package notify

import (
	"fmt"
	"time"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/orders"
	"github.com/appetiteclub/bakery/services/orderdesk/internal/router"
	"github.com/google/uuid"
)

const (
	soundNewOrder = "/sounds/new-order.mp3"
	soundUpdate   = "/sounds/notification.mp3"
	soundAlert    = "/sounds/alert.mp3"
)

var vibrations = map[Severity][]int{
	SeveritySuccess: {200, 100, 200},
	SeverityInfo:    {200},
	SeverityWarning: {300, 100, 300, 100, 300},
}

// Emitter builds notifications from accepted events. It does not deduplicate.
type Emitter struct {
	lang  orders.Lang
	newID func() string
}

func NewEmitter(lang orders.Lang) *Emitter {
	return &Emitter{lang: lang, newID: uuid.NewString}
}

// Build returns one notification per event, or one per assigned item for task
// assignments. Connectivity and unknown events produce none.
func (e *Emitter) Build(ev router.Event) []Notification {
	number := firstNonEmpty(ev.OrderNumber, ev.OrderID)

	switch ev.Kind {
	case router.KindOrderCreated:
		branch := firstNonEmpty(ev.BranchName, "-")
		if ev.Order != nil {
			number = firstNonEmpty(ev.Order.OrderNumber, number)
			branch = firstNonEmpty(ev.Order.Branch.DisplayName, branch)
		}
		return []Notification{e.build(ev, SeveritySuccess, e.id(ev.ID, ""), "",
			fmt.Sprintf("طلب جديد %s من %s", number, branch),
			fmt.Sprintf("New order %s from %s", number, branch))}

	case router.KindOrderApproved:
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("تم اعتماد الطلب %s", number),
			fmt.Sprintf("Order %s approved", number))}

	case router.KindOrderStatusUpdated:
		ar, en := orderStatusText(ev.Status)
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("تم تحديث حالة الطلب %s إلى %s", number, ar),
			fmt.Sprintf("Order %s is now %s", number, en))}

	case router.KindOrderCompleted:
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("اكتمل إنتاج الطلب %s", number),
			fmt.Sprintf("Order %s completed by production", number))}

	case router.KindOrderInTransit:
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("الطلب %s في الطريق إلى الفرع", number),
			fmt.Sprintf("Order %s is on its way to the branch", number))}

	case router.KindOrderDelivered:
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("تم تأكيد استلام الطلب %s", number),
			fmt.Sprintf("Order %s delivered", number))}

	case router.KindTaskAssigned:
		out := make([]Notification, 0, len(ev.Assignments))
		seen := make(map[string]bool, len(ev.Assignments))
		for _, a := range ev.Assignments {
			if seen[a.ItemID] {
				continue
			}
			seen[a.ItemID] = true

			product := firstNonEmpty(a.ProductName, e.lang.Pick("منتج", "item"))
			chef := firstNonEmpty(a.AssignedTo.DisplayName, a.AssignedTo.ID)
			n := e.build(ev, SeverityInfo, e.id(ev.ID, a.ItemID), a.ItemID,
				fmt.Sprintf("تم تعيين %s إلى %s في الطلب %s", product, chef, number),
				fmt.Sprintf("%s assigned to %s on order %s", product, chef, number))
			n.Data.ChefID = a.AssignedTo.ID
			out = append(out, n)
		}
		return out

	case router.KindItemStatusUpdated:
		ar, en := itemStatusText(ev.Status)
		product := firstNonEmpty(ev.ProductName, e.lang.Pick("منتج", "item"))
		return []Notification{e.build(ev, SeverityInfo, e.id(ev.ID, ""), ev.ItemID,
			fmt.Sprintf("حالة %s في الطلب %s: %s", product, number, ar),
			fmt.Sprintf("%s on order %s is %s", product, number, en))}

	case router.KindReturnStatusUpdated:
		ar, en := returnStatusText(ev.Status)
		n := e.build(ev, SeverityInfo, e.id(ev.ID, ""), "",
			fmt.Sprintf("تم تحديث حالة المرتجع للطلب %s إلى %s", number, ar),
			fmt.Sprintf("Return on order %s is now %s", number, en))
		n.Data.ReturnID = ev.ReturnID
		return []Notification{n}

	case router.KindMissingAssignments:
		return []Notification{e.build(ev, SeverityWarning, e.id(ev.ID, ""), "",
			fmt.Sprintf("يوجد عناصر بدون شيف في الطلب %s", number),
			fmt.Sprintf("Order %s has items without a chef", number))}

	case router.KindConnect, router.KindDisconnect, router.KindConnectError, router.KindUnknown:
		return nil
	}
	return nil
}

func (e *Emitter) build(ev router.Event, sev Severity, id, itemID, ar, en string) Notification {
	at := ev.At
	if at.IsZero() {
		at = time.Now()
	}
	return Notification{
		ID:             id,
		Type:           ev.Kind.String(),
		DisplayType:    sev,
		Message:        ar,
		MessageEn:      en,
		DisplayMessage: e.lang.Pick(ar, en),
		Data: Data{
			OrderID:     ev.OrderID,
			OrderNumber: ev.OrderNumber,
			ItemID:      itemID,
			BranchID:    ev.BranchID,
			ChefID:      ev.ChefID,
			EventID:     ev.ID,
		},
		CreatedAt: at,
		Sound:     soundFor(sev),
		Vibrate:   vibrations[sev],
	}
}

// id is the server event id, suffixed per item for fan-out, or a fresh id when
// the server sent none.
func (e *Emitter) id(eventID, itemID string) string {
	if eventID == "" {
		return e.newID()
	}
	if itemID == "" {
		return eventID
	}
	return eventID + ":" + itemID
}

func soundFor(sev Severity) string {
	switch sev {
	case SeveritySuccess:
		return soundNewOrder
	case SeverityWarning:
		return soundAlert
	}
	return soundUpdate
}

var orderStatusAr = map[orderstatus.Status]string{
	orderstatus.Statuses.Requested:    "مطلوب",
	orderstatus.Statuses.Pending:      "قيد الانتظار",
	orderstatus.Statuses.Approved:     "معتمد",
	orderstatus.Statuses.InProduction: "قيد الإنتاج",
	orderstatus.Statuses.Completed:    "مكتمل",
	orderstatus.Statuses.InTransit:    "في الطريق",
	orderstatus.Statuses.Delivered:    "تم التسليم",
	orderstatus.Statuses.Cancelled:    "ملغى",
	orderstatus.Statuses.Stocked:      "في المخزون",
}

var itemStatusAr = map[itemstatus.Status]string{
	itemstatus.Statuses.Pending:    "قيد الانتظار",
	itemstatus.Statuses.Assigned:   "معين",
	itemstatus.Statuses.InProgress: "قيد التحضير",
	itemstatus.Statuses.Completed:  "مكتمل",
}

var returnStatusAr = map[returnstatus.Status]string{
	returnstatus.Statuses.PendingApproval: "بانتظار الموافقة",
	returnstatus.Statuses.Approved:        "مقبول",
	returnstatus.Statuses.Rejected:        "مرفوض",
	returnstatus.Statuses.Processed:       "تمت المعالجة",
}

func orderStatusText(s string) (string, string) {
	st := orderstatus.Status(s)
	return firstNonEmpty(orderStatusAr[st], s), st.Label()
}

func itemStatusText(s string) (string, string) {
	st := itemstatus.Status(s)
	return firstNonEmpty(itemStatusAr[st], s), st.Label()
}

func returnStatusText(s string) (string, string) {
	st := returnstatus.Status(s)
	return firstNonEmpty(returnStatusAr[st], s), st.Label()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
