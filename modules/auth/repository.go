package auth

import (
	"errors"

	domain "github.com/example/taskboard/domain/user"
	"gorm.io/gorm"
)

var (
	// ErrUserNotFound is returned when a user is not found.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists is returned when a user already exists.
	ErrUserExists = errors.New("user with this email already exists")
)

// UserRepository handles user persistence using GORM.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *UserRepository) Create(user *domain.User) error {
	result := r.db.Create(user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return ErrUserExists
		}
		return result.Error
	}
	return nil
}

// FindByID finds a user by ID.
func (r *UserRepository) FindByID(id string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByEmail finds a user by email.
func (r *UserRepository) FindByEmail(email string) (*domain.User, error) {
	var user domain.User
	result := r.db.First(&user, "email = ?", email)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, result.Error
	}
	return &user, nil
}

// FindByIDs loads the users for the given ids in a single query. Missing ids
// are simply absent from the result map.
func (r *UserRepository) FindByIDs(ids []string) (map[string]*domain.User, error) {
	users := make(map[string]*domain.User, len(ids))
	if len(ids) == 0 {
		return users, nil
	}
	var rows []*domain.User
	if err := r.db.Find(&rows, "id IN ?", ids).Error; err != nil {
		return nil, err
	}
	for _, u := range rows {
		users[u.ID] = u
	}
	return users, nil
}

// List returns users sorted by first then last name. When activeOnly is
// non-nil the result is filtered on the is_active flag.
func (r *UserRepository) List(activeOnly *bool) ([]*domain.User, error) {
	query := r.db.Order("first_name ASC, last_name ASC")
	if activeOnly != nil {
		query = query.Where("is_active = ?", *activeOnly)
	}
	var users []*domain.User
	if err := query.Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// EmailExists checks if a user with the given email exists.
func (r *UserRepository) EmailExists(email string) (bool, error) {
	var count int64
	result := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count)
	if result.Error != nil {
		return false, result.Error
	}
	return count > 0, nil
}

// SetActive updates the is_active flag for a user.
func (r *UserRepository) SetActive(id string, active bool) error {
	result := r.db.Model(&domain.User{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CountAdmins returns the number of admin accounts.
func (r *UserRepository) CountAdmins() (int64, error) {
	var count int64
	result := r.db.Model(&domain.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	return count, result.Error
}
