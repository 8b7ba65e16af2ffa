package router

import (
	"strings"

	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
	"github.com/go-playground/validator/v10"
)

type orderCreatedShape struct {
	OrderID     string `validate:"required"`
	OrderNumber string `validate:"required"`
	BranchName  string `validate:"required"`
	Items       int    `validate:"min=1"`
}

type orderRefShape struct {
	OrderID string `validate:"required"`
}

type orderStatusShape struct {
	OrderID string `validate:"required"`
	Status  string `validate:"required,orderstatus"`
}

type assignmentShape struct {
	ItemID string `validate:"required"`
	ChefID string `validate:"required"`
}

type taskAssignedShape struct {
	OrderID     string            `validate:"required"`
	Assignments []assignmentShape `validate:"min=1,dive"`
}

type itemStatusShape struct {
	OrderID string `validate:"required"`
	ItemID  string `validate:"required"`
	Status  string `validate:"required,itemstatus"`
}

type returnStatusShape struct {
	OrderID  string `validate:"required"`
	ReturnID string `validate:"required"`
	Status   string `validate:"required,returnstatus"`
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("orderstatus", func(fl validator.FieldLevel) bool {
		return orderstatus.ByName(fl.Field().String()) != nil
	})
	_ = v.RegisterValidation("itemstatus", func(fl validator.FieldLevel) bool {
		return itemstatus.ByName(fl.Field().String()) != nil
	})
	_ = v.RegisterValidation("returnstatus", func(fl validator.FieldLevel) bool {
		return returnstatus.ByName(fl.Field().String()) != nil
	})
	return v
}

// shapeOf lifts the fields each kind requires; nil means nothing to check.
func shapeOf(ev Event) any {
	switch ev.Kind {
	case KindOrderCreated:
		return orderCreatedShape{
			OrderID:     ev.OrderID,
			OrderNumber: ev.OrderNumber,
			BranchName:  ev.BranchName,
			Items:       len(ev.Raw.Objects("items")),
		}
	case KindOrderApproved, KindOrderCompleted, KindOrderInTransit, KindOrderDelivered, KindMissingAssignments:
		return orderRefShape{OrderID: ev.OrderID}
	case KindOrderStatusUpdated:
		return orderStatusShape{OrderID: ev.OrderID, Status: ev.Status}
	case KindTaskAssigned:
		shape := taskAssignedShape{OrderID: ev.OrderID}
		for _, a := range ev.Assignments {
			shape.Assignments = append(shape.Assignments, assignmentShape{ItemID: a.ItemID, ChefID: a.AssignedTo.ID})
		}
		return shape
	case KindItemStatusUpdated:
		return itemStatusShape{OrderID: ev.OrderID, ItemID: ev.ItemID, Status: ev.Status}
	case KindReturnStatusUpdated:
		return returnStatusShape{OrderID: ev.OrderID, ReturnID: ev.ReturnID, Status: ev.Status}
	case KindConnect, KindDisconnect, KindConnectError, KindUnknown:
		return nil
	}
	return nil
}

func (r *Router) validate(ev Event) error {
	shape := shapeOf(ev)
	if shape == nil {
		return nil
	}
	return r.validator.Struct(shape)
}

// missingFields renders validator errors as a short list for logs.
func missingFields(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err.Error()
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field()+":"+fe.Tag())
	}
	return strings.Join(fields, ",")
}
