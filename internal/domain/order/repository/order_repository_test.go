package repository

import (
	"testing"

	"gocart/internal/domain/order/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockRepo(t *testing.T) (OrderRepository, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 sqlDB,
		PreferSimpleProtocol: true,
	}), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	return NewOrderRepository(db), mock
}

// 对账和库存提交的正确性都压在条件 UPDATE 的守卫上，
// 这里校验生成的 SQL 确实带着守卫
func TestMarkPaymentSuccessGuard(t *testing.T) {
	t.Run("Guard restricts to pending or failed", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET .+ WHERE gateway_order_id = \$\d+ AND payment_status IN \(.+\)`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		rows, err := repo.MarkPaymentSuccess("gw_1", "pay_1", "sig", "upi")

		assert.NoError(t, err)
		assert.Equal(t, int64(1), rows)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Zero rows when guard not satisfied", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders"`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		rows, err := repo.MarkPaymentSuccess("gw_1", "pay_1", "sig", "upi")

		assert.NoError(t, err)
		assert.Equal(t, int64(0), rows)
	})
}

func TestMarkRefundedGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	// 只允许从 SUCCESS 进入 REFUNDED
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE gateway_payment_id = \$\d+ AND payment_status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := repo.MarkRefunded("pay_1")

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdvanceStatusGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET "status"=\$\d+ WHERE id = \$\d+ AND status = \$\d+`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rows, err := repo.AdvanceStatus("o1", model.StatusOrderPlaced, model.StatusProcessing)

	assert.NoError(t, err)
	assert.Equal(t, int64(1), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStockCommittedMarker(t *testing.T) {
	t.Run("First mark flips the flag", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET "stock_committed"=\$\d+ WHERE id = \$\d+ AND stock_committed = false AND is_paid = true AND is_cancelled = false`).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		var acquired bool
		err := repo.Transaction(func(tx *gorm.DB) error {
			var err error
			acquired, err = repo.MarkStockCommitted(tx, "o1")
			return err
		})

		assert.NoError(t, err)
		assert.True(t, acquired)
	})

	t.Run("Second mark reports already committed", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET "stock_committed"=\$\d+ WHERE id = \$\d+ AND stock_committed = false AND is_paid = true AND is_cancelled = false`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		var acquired bool
		err := repo.Transaction(func(tx *gorm.DB) error {
			var err error
			acquired, err = repo.MarkStockCommitted(tx, "o1")
			return err
		})

		assert.NoError(t, err)
		assert.False(t, acquired)
	})

	t.Run("Guard excludes cancelled and unpaid orders", func(t *testing.T) {
		repo, mock := newMockRepo(t)

		// 已取消订单：同一条守卫 SQL 0 行命中，标记不翻转
		mock.ExpectBegin()
		mock.ExpectExec(`UPDATE "orders" SET "stock_committed"=\$\d+ WHERE id = \$\d+ AND stock_committed = false AND is_paid = true AND is_cancelled = false`).
			WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		var acquired bool
		err := repo.Transaction(func(tx *gorm.DB) error {
			var err error
			acquired, err = repo.MarkStockCommitted(tx, "cancelled-order")
			return err
		})

		assert.NoError(t, err)
		assert.False(t, acquired)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestCancelGuard(t *testing.T) {
	repo, mock := newMockRepo(t)

	// 终态订单不可取消：WHERE 排除 blocked 状态
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "orders" SET .+ WHERE id = \$\d+ AND status NOT IN \(.+\)`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	var rows int64
	err := repo.Transaction(func(tx *gorm.DB) error {
		var err error
		rows, err = repo.Cancel(tx, "o1", "CHANGED_MIND", "", model.CancelledByBuyer,
			[]string{model.StatusDelivered, model.StatusCancelled})
		return err
	})

	assert.NoError(t, err)
	assert.Equal(t, int64(0), rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
