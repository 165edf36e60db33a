package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenAggregate_Nested(t *testing.T) {
	h := newTestHelper(t)
	a := testAggregate(t, testSpec())

	file := genAggregate(h, a)
	require.NotNil(t, file)
	code := file.GoString()

	assert.Contains(t, code, "type OrderAggregate struct {")
	assert.Contains(t, code, "`json:\"order_items\"`")
	assert.Contains(t, code, "`json:\"order_items_deleted,omitempty\"`")
	assert.Contains(t, code, "func OrderAggregateFromMajor(m *Order) *OrderAggregate {")
	assert.Contains(t, code, "OrderItems: []*OrderItem{}")
	assert.Contains(t, code, "a.setMajor(m)")
	assert.Contains(t, code, "func (a *OrderAggregate) ToMajor() *Order {")
	assert.Contains(t, code, "return a.Order")
	assert.Contains(t, code, "a.Order = m")

	assert.Contains(t, code, "func (a *OrderAggregate) Refine(p *aggregen.Principal) {")
	assert.Contains(t, code, "now := time.Now()")
	assert.Contains(t, code, "if m := a.ToMajor(); m != nil {")
	assert.Contains(t, code, "m.RefineCreate(p, now)")
	assert.Contains(t, code, "a.Invoice.RefineUpdate(p, now)")
	assert.Contains(t, code, "c.RefineCreate(p, now)")

	assert.Contains(t, code, "func loadOrderAggregate(ctx context.Context, tx sql.Executor, m *Order) (*OrderAggregate, error) {")
	assert.Contains(t, code, `QueryInvoice(ctx, tx, sql.EQ(tx.Dialect(), "order_id"), *m.ID)`)
	assert.Contains(t, code, `QueryShipment(ctx, tx, sql.EQ(tx.Dialect(), "order_code"), *m.Code)`)
	assert.Contains(t, code, "a.Invoice = rows[0]")
	assert.Contains(t, code, "a.OrderItems = rows")
	assert.Contains(t, code, "SelectTag(ctx, tx, sql.SelectSpec{")
	assert.Contains(t, code, `"INNER JOIN " + sql.Quote(tx.Dialect(), OrderTagTable)`)
	assert.Contains(t, code, `sql.Quote(tx.Dialect(), "j.tag_id")`)
	assert.Contains(t, code, `sql.EQ(tx.Dialect(), "j.order_id")`)
}

func TestGenAggregate_Extended(t *testing.T) {
	h := newTestHelper(t)
	spec := testSpec()
	spec.ExtendMajor = true
	spec.AttachmentField = "attachments"
	a := testAggregate(t, spec)

	code := genAggregate(h, a).GoString()
	assert.Contains(t, code, "`json:\"attachments,omitempty\"`")
	assert.Contains(t, code, "a.Code = m.Code")
	assert.Contains(t, code, "m := &Order{")
	assert.Contains(t, code, "if a.Shipment != nil && a.Shipment.OrderCode != nil {")
	assert.Contains(t, code, "m.Code = a.Shipment.OrderCode")
	assert.NotContains(t, code, "m.ID = a.Invoice")
}

func TestGenAggregate_NoLoad(t *testing.T) {
	h := newTestHelper(t)
	spec := testSpec()
	spec.GenerateSelect, spec.GenerateDelete = false, false
	code := genAggregate(h, testAggregate(t, spec)).GoString()
	assert.NotContains(t, code, "loadOrderAggregate")
}

func TestGenAggregate_ReadonlyNotRefined(t *testing.T) {
	h := newTestHelper(t)
	spec := testSpec()
	spec.OneToOne[0].Readonly = true
	code := genAggregate(h, testAggregate(t, spec)).GoString()
	assert.NotContains(t, code, "a.Invoice.RefineCreate")
	assert.Contains(t, code, "QueryInvoice(")
}
