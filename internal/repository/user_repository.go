package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5/pgxpool"
)

// UserRepository - аккаунты ведутся вне этого сервиса, здесь только чтение и привязка Telegram
type UserRepository struct {
	*base.Repository
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(pool)}
}

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `
		SELECT id, first_name, last_name, email, role, telegram_chat_id, created_at
		FROM users
		WHERE id = $1
	`

	var user model.User
	err := r.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.Role,
		&user.TelegramChatID,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// SetTelegramChatID привязывает чат Telegram к пользователю. false - пользователя нет.
func (r *UserRepository) SetTelegramChatID(ctx context.Context, id, chatID int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `UPDATE users SET telegram_chat_id = $1 WHERE id = $2`, chatID, id)
	if err != nil {
		return false, fmt.Errorf("set telegram chat id: %w", err)
	}

	return affected > 0, nil
}
