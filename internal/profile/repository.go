package profile

import (
	"context"

	profileModel "github.com/mooner2666/inke3/internal/model/profile"

	"gorm.io/gorm"
)

// ProfileRepository 用户资料仓储层
type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) Create(ctx context.Context, p *profileModel.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProfileRepository) Save(ctx context.Context, p *profileModel.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*profileModel.Profile, error) {
	var p profileModel.Profile
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *ProfileRepository) GetByUsername(ctx context.Context, username string) (*profileModel.Profile, error) {
	var p profileModel.Profile
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&p).Error
	return &p, err
}

// ExistsByUsername 用户名是否已被占用
func (r *ProfileRepository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&profileModel.Profile{}).
		Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) ([]profileModel.Profile, error) {
	var profiles []profileModel.Profile
	if len(ids) == 0 {
		return profiles, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&profiles).Error
	return profiles, err
}
