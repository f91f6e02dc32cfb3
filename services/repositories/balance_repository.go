package repositories

import (
	"errors"
	"time"

	"github.com/whsper-labs/whsper_api/model"
	"github.com/whsper-labs/whsper_api/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BalanceRepository holds fungible token balances per account.
type BalanceRepository struct {
	BaseRepository
}

func NewBalanceRepository(db *gorm.DB) *BalanceRepository {
	return &BalanceRepository{
		BaseRepository: NewBaseRepository(db),
	}
}

func (r *BalanceRepository) GetBalance(account, token string) (int64, error) {
	var balance model.Balance
	err := r.db.Where("account = ? AND token = ?", account, token).First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.Amount, nil
}

func (r *BalanceRepository) Credit(account, token string, amount int64) error {
	now := time.Now()
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "account"}, {Name: "token"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"amount":     gorm.Expr("balances.amount + ?", amount),
			"updated_at": now,
		}),
	}).Create(&model.Balance{
		Account:   account,
		Token:     token,
		Amount:    amount,
		UpdatedAt: now,
	}).Error
}

// Debit removes amount from the account, failing with
// shared.ErrInsufficientBalance when the balance cannot cover it.
func (r *BalanceRepository) Debit(account, token string, amount int64) error {
	tx := r.db.Model(&model.Balance{}).
		Where("account = ? AND token = ? AND amount >= ?", account, token, amount).
		Updates(map[string]interface{}{
			"amount":     gorm.Expr("amount - ?", amount),
			"updated_at": time.Now(),
		})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return shared.ErrInsufficientBalance
	}
	return nil
}
