package sql

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenLoad(t *testing.T) {
	h := newTestHelper(t)
	file := genLoad(h, testAggregate(t, testSpec()))
	require.NotNil(t, file)
	code := file.GoString()

	assert.Contains(t, code, "func LoadOrderAggregate(ctx context.Context, tx sql.Executor, key int64) (*OrderAggregate, error) {")
	assert.Contains(t, code, "m, err := FindOrder(ctx, tx, key)")
	assert.Contains(t, code, "return nil, aggregen.NewNotFoundErrorWithKey(OrderTable, key)")
	assert.Contains(t, code, "return loadOrderAggregate(ctx, tx, m)")

	assert.Contains(t, code, "func LoadOrderAggregates(ctx context.Context, tx sql.Executor, keys []int64, cond string, args ...any) ([]*OrderAggregate, error) {")
	assert.Contains(t, code, `sql.And(sql.In(sql.Quote(tx.Dialect(), "id"), len(keys)), cond)`)
	assert.Contains(t, code, "append(sql.Args(keys), args...)...")
	assert.Contains(t, code, "return []*OrderAggregate{}, nil")
}
