package adapters

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"covid_market/internal/feature/catalog/domain/entity"
	"covid_market/internal/feature/catalog/usecase"
)

// definitionGorm はDefinitionRepositoryインターフェースのGORM実装です。
// 生成定義のみを読み込み、生成済みデータセットは書き込みません。
type definitionGorm struct {
	db *gorm.DB
}

var _ usecase.DefinitionRepository = (*definitionGorm)(nil)

// NewDefinitionRepository は指定されたDB接続でdefinitionGormの新しいインスタンスを生成します。
func NewDefinitionRepository(db *gorm.DB) *definitionGorm {
	return &definitionGorm{db: db}
}

// ListActiveCountries はsort_key順にすべての有効な国定義を返します。
func (r *definitionGorm) ListActiveCountries(ctx context.Context) ([]entity.CountryDefinition, error) {
	var defs []entity.CountryDefinition
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// ListActiveStocks はsort_key順にすべての有効な銘柄定義を返します。
func (r *definitionGorm) ListActiveStocks(ctx context.Context) ([]entity.StockDefinition, error) {
	var defs []entity.StockDefinition
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&defs).Error; err != nil {
		return nil, err
	}
	return defs, nil
}

// SeedDefaults は定義テーブルが空の場合に組み込み定義を投入します。
// ローカル開発でSQLiteを使う場合の初期データ用です。
func SeedDefaults(ctx context.Context, db *gorm.DB) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(&entity.CountryDefinition{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			rows := append([]entity.CountryDefinition(nil), DefaultCountries...)
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		if err := tx.Model(&entity.StockDefinition{}).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			rows := append([]entity.StockDefinition(nil), DefaultStocks...)
			if err := tx.Create(&rows).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportDefinitions は定義をkey/tickerで上書き登録します。
// is_activeはdefault:trueのため、無効な定義は登録後に明示的に更新します。
func ImportDefinitions(ctx context.Context, db *gorm.DB, countries []entity.CountryDefinition, stocks []entity.StockDefinition) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inactiveKeys, inactiveTickers []string
		for _, c := range countries {
			row := c
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "key"}},
				DoUpdates: clause.AssignmentColumns([]string{"index_name", "covid_scale", "case_noise", "stock_base", "stock_volatility", "is_active", "sort_key", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			if !c.IsActive {
				inactiveKeys = append(inactiveKeys, c.Key)
			}
		}
		for _, s := range stocks {
			row := s
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "ticker"}},
				DoUpdates: clause.AssignmentColumns([]string{"name", "base_price", "volatility", "is_active", "sort_key", "updated_at"}),
			}).Create(&row).Error; err != nil {
				return err
			}
			if !s.IsActive {
				inactiveTickers = append(inactiveTickers, s.Ticker)
			}
		}
		if len(inactiveKeys) > 0 {
			if err := tx.Model(&entity.CountryDefinition{}).Where("key IN ?", inactiveKeys).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		if len(inactiveTickers) > 0 {
			if err := tx.Model(&entity.StockDefinition{}).Where("ticker IN ?", inactiveTickers).Update("is_active", false).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
