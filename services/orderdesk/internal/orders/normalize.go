package orders

import (
	"github.com/appetiteclub/bakery/pkg/enums/itemstatus"
	"github.com/appetiteclub/bakery/pkg/enums/orderstatus"
	"github.com/appetiteclub/bakery/pkg/enums/returnstatus"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Normalizer turns raw server payloads into the canonical model for one viewer language.
type Normalizer struct {
	Lang Lang
	// NewID generates ids for items the server sent without one.
	NewID func() string
}

func NewNormalizer(lang Lang) *Normalizer {
	return &Normalizer{Lang: lang, NewID: uuid.NewString}
}

// Order normalizes a full or partial order payload. It never fails: missing
// fields resolve to their documented fallbacks.
func (n *Normalizer) Order(raw Payload) Order {
	if raw == nil {
		raw = Payload{}
	}

	total, _ := raw.Decimal("totalAmount", "total")
	adjusted, ok := raw.Decimal("adjustedTotal")
	if !ok {
		adjusted = total
	}

	o := Order{
		ID:            raw.String("_id", "id", "orderId"),
		OrderNumber:   raw.String("orderNumber"),
		Branch:        n.branchOf(raw),
		Status:        orderStatus(raw.String("status")),
		TotalAmount:   total,
		AdjustedTotal: adjusted,
		Priority:      priority(raw.String("priority")),
		Notes:         raw.String("notes"),
		CreatedBy:     n.userName(raw, "createdBy"),
		CreatedAt:     raw.Time("createdAt", "date"),
		UpdatedAt:     raw.Time("updatedAt"),
	}
	if rev, ok := raw.Number("revision", "__v", "version"); ok && rev > 0 {
		o.Revision = int64(rev)
	}
	if t := raw.Time("requestedDeliveryDate"); !t.IsZero() {
		o.RequestedDeliveryDate = &t
	}

	for _, r := range raw.Objects("returns") {
		o.Returns = append(o.Returns, n.Return(r))
	}
	for _, it := range raw.Objects("items") {
		o.Items = append(o.Items, n.Item(it))
	}
	for i := range o.Items {
		if o.Items[i].ReturnedQuantity == 0 {
			o.Items[i].ReturnedQuantity, o.Items[i].ReturnReason = returnedFor(o.Returns, o.Items[i].ProductID, o.Items[i].ReturnReason)
		}
	}
	for _, h := range raw.Objects("statusHistory") {
		o.StatusHistory = append(o.StatusHistory, StatusChange{
			Status:    orderStatus(h.String("status")),
			ChangedBy: n.userName(h, "changedBy"),
			ChangedAt: h.Time("changedAt", "date"),
			Notes:     h.String("notes"),
		})
	}

	return o
}

// Item normalizes one order line.
func (n *Normalizer) Item(raw Payload) OrderItem {
	if raw == nil {
		raw = Payload{}
	}
	product := raw.Object("product")
	if product == nil {
		product = Payload{}
	}

	item := OrderItem{
		ItemID:        raw.String("_id", "itemId", "id"),
		ProductID:     firstNonEmpty(product.String("_id", "id"), raw.String("productId", "product")),
		ProductName:   firstNonEmpty(raw.String("productName"), product.String("name")),
		ProductNameEn: firstNonEmpty(raw.String("productNameEn"), product.String("nameEn")),
		Status:        itemStatus(raw.String("status")),
		ReturnReason:  raw.String("returnReason"),
	}
	if item.ItemID == "" {
		item.ItemID = n.newID()
		item.IDSynthesized = true
	}
	item.DisplayProductName = n.Lang.Display(item.ProductName, item.ProductNameEn)

	item.Quantity = 1
	if q, ok := raw.Number("quantity"); ok && q > 0 {
		item.Quantity = q
	}
	if q, ok := raw.Number("returnedQuantity"); ok && q > 0 {
		item.ReturnedQuantity = q
	}
	if price, ok := raw.Decimal("price"); ok {
		item.Price = price
	} else if price, ok := product.Decimal("price"); ok {
		item.Price = price
	} else {
		item.Price = decimal.Zero
	}

	unit := firstNonEmpty(raw.String("unit"), product.String("unit"))
	unitEn := firstNonEmpty(raw.String("unitEn"), product.String("unitEn"))
	item.Unit, item.UnitEn, item.DisplayUnit = n.units(unit, unitEn)

	if raw.Has("department") {
		item.Department = n.Department(raw.Object("department"), raw.ID("department"))
	} else if product.Has("department") {
		item.Department = n.Department(product.Object("department"), product.ID("department"))
	} else {
		item.Department = n.Department(nil, "")
	}

	if raw.Has("assignedTo") {
		ref := n.chefRef(raw.Object("assignedTo"), raw.ID("assignedTo"))
		if ref.ID != "" {
			item.AssignedTo = &ref
		}
	}

	return item
}

// Return normalizes a return claim.
func (n *Normalizer) Return(raw Payload) Return {
	if raw == nil {
		raw = Payload{}
	}
	r := Return{
		ReturnID:     raw.String("_id", "returnId", "id"),
		ReturnNumber: raw.String("returnNumber"),
		Status:       returnStatus(raw.String("status")),
		ReviewNotes:  raw.String("reviewNotes"),
		CreatedAt:    raw.Time("createdAt"),
		CreatedBy:    n.userName(raw, "createdBy"),
		ReviewedBy:   n.userName(raw, "reviewedBy"),
	}
	for _, it := range raw.Objects("items") {
		qty := 1.0
		if q, ok := it.Number("quantity"); ok && q > 0 {
			qty = q
		}
		r.Items = append(r.Items, ReturnItem{
			ProductID: firstNonEmpty(it.ID("product"), it.String("productId")),
			Quantity:  qty,
			Reason:    it.String("reason"),
		})
	}
	return r
}

// Assignments normalizes the item tuples of a task assignment.
func (n *Normalizer) Assignments(raw Payload) []Assignment {
	if raw == nil {
		return nil
	}
	var out []Assignment
	for _, it := range raw.Objects("items") {
		a := Assignment{
			ItemID:     it.String("_id", "itemId", "id"),
			AssignedTo: n.chefRef(it.Object("assignedTo"), it.ID("assignedTo")),
			Status:     itemStatus(it.String("status")),
		}
		name := firstNonEmpty(it.String("productName"), it.Object("product").String("name"))
		nameEn := firstNonEmpty(it.String("productNameEn"), it.Object("product").String("nameEn"))
		if name != "" || nameEn != "" {
			a.ProductName = n.Lang.Display(name, nameEn)
		}
		if a.Status == itemstatus.Statuses.Pending {
			a.Status = itemstatus.Statuses.Assigned
		}
		if it.Has("department") {
			a.Department = n.Department(it.Object("department"), it.ID("department"))
		}
		if q, ok := it.Number("quantity"); ok && q > 0 {
			a.Quantity = q
		}
		if a.ItemID == "" {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Chef normalizes a chef record from the chefs endpoint.
func (n *Normalizer) Chef(raw Payload) Chef {
	if raw == nil {
		raw = Payload{}
	}
	user := raw.Object("user")
	if user == nil {
		user = Payload{}
	}
	c := Chef{
		ID:       raw.String("_id", "id"),
		UserID:   firstNonEmpty(user.String("_id", "id"), raw.String("userId")),
		Username: firstNonEmpty(user.String("username"), raw.String("username")),
		Name:     firstNonEmpty(raw.String("name"), user.String("name")),
		NameEn:   firstNonEmpty(raw.String("nameEn"), user.String("nameEn")),
	}
	c.DisplayName = n.Lang.Display(c.Name, firstNonEmpty(c.NameEn, c.Username))
	c.Department = n.Department(raw.Object("department"), raw.ID("department"))
	return c
}

// Product normalizes a catalog product.
func (n *Normalizer) Product(raw Payload) Product {
	if raw == nil {
		raw = Payload{}
	}
	p := Product{
		ID:     raw.String("_id", "id"),
		Name:   raw.String("name"),
		NameEn: raw.String("nameEn"),
		Price:  decimal.Zero,
	}
	p.DisplayName = n.Lang.Display(p.Name, p.NameEn)
	p.Unit, p.UnitEn, p.DisplayUnit = n.units(raw.String("unit"), raw.String("unitEn"))
	if price, ok := raw.Decimal("price"); ok {
		p.Price = price
	}
	p.Department = n.Department(raw.Object("department"), raw.ID("department"))
	return p
}

// Branch normalizes a branch object.
func (n *Normalizer) Branch(raw Payload) BranchRef {
	if raw == nil {
		raw = Payload{}
	}
	b := BranchRef{
		ID:     raw.String("_id", "id"),
		Name:   raw.String("name"),
		NameEn: raw.String("nameEn"),
	}
	b.DisplayName = n.Lang.Display(b.Name, b.NameEn)
	return b
}

// Department normalizes a department given as an object or a bare id.
func (n *Normalizer) Department(raw Payload, id string) DepartmentRef {
	if raw == nil {
		raw = Payload{}
	}
	d := DepartmentRef{
		ID:     firstNonEmpty(raw.String("_id", "id"), id),
		Name:   raw.String("name"),
		NameEn: raw.String("nameEn"),
	}
	d.DisplayName = n.Lang.Display(d.Name, d.NameEn)
	return d
}

func (n *Normalizer) branchOf(raw Payload) BranchRef {
	if obj := raw.Object("branch"); obj != nil {
		b := n.Branch(obj)
		if b.Name == "" {
			b.Name = raw.String("branchName")
			b.DisplayName = n.Lang.Display(b.Name, b.NameEn)
		}
		return b
	}
	b := BranchRef{
		ID:     firstNonEmpty(raw.String("branchId"), raw.String("branch")),
		Name:   raw.String("branchName"),
		NameEn: raw.String("branchNameEn"),
	}
	b.DisplayName = n.Lang.Display(b.Name, b.NameEn)
	return b
}

func (n *Normalizer) chefRef(raw Payload, id string) ChefRef {
	if raw == nil {
		raw = Payload{}
	}
	ref := ChefRef{
		ID:       firstNonEmpty(raw.String("_id", "id"), id),
		Username: raw.String("username"),
		Name:     raw.String("name"),
		NameEn:   raw.String("nameEn"),
	}
	ref.DisplayName = n.Lang.Display(ref.Name, firstNonEmpty(ref.NameEn, ref.Username))
	return ref
}

func (n *Normalizer) userName(raw Payload, key string) string {
	if obj := raw.Object(key); obj != nil {
		return firstNonEmpty(obj.String("username"), obj.String("name"), obj.String("_id", "id"))
	}
	return raw.String(key)
}

// units resolves both spellings of a unit and the one shown to the viewer.
func (n *Normalizer) units(token, tokenEn string) (string, string, string) {
	if u, ok := canonicalUnit(firstNonEmpty(token, tokenEn)); ok {
		return u.ar, u.en, n.Lang.Pick(u.ar, u.en)
	}
	return unitAr, unitEn, n.Lang.Pick(unitAr, unitEn)
}

func (n *Normalizer) newID() string {
	if n.NewID != nil {
		return n.NewID()
	}
	return uuid.NewString()
}

func returnedFor(returns []Return, productID, reason string) (float64, string) {
	if productID == "" {
		return 0, reason
	}
	var qty float64
	for _, r := range returns {
		if r.Status == returnstatus.Statuses.Rejected {
			continue
		}
		for _, it := range r.Items {
			if it.ProductID != productID {
				continue
			}
			qty += it.Quantity
			if reason == "" {
				reason = it.Reason
			}
		}
	}
	return qty, reason
}

func orderStatus(s string) orderstatus.Status {
	if st := orderstatus.ByName(s); st != nil {
		return *st
	}
	return orderstatus.Statuses.Pending
}

func itemStatus(s string) itemstatus.Status {
	if st := itemstatus.ByName(s); st != nil {
		return *st
	}
	return itemstatus.Statuses.Pending
}

func returnStatus(s string) returnstatus.Status {
	if st := returnstatus.ByName(s); st != nil {
		return *st
	}
	return returnstatus.Statuses.PendingApproval
}

func priority(s string) Priority {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return Priority(s)
	}
	return PriorityMedium
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
