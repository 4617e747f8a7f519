package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/tutor_scheduler/internal/model"
	"github.com/Freeeeeet/tutor_scheduler/internal/repository/base"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const notificationColumns = `id, student_id, professor_id, title, description, kind, is_read, created_at`

type NotificationRepository struct {
	*base.Repository
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{Repository: base.NewRepository(pool)}
}

// Create сохраняет уведомление; id и created_at выставляет БД
func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) error {
	query := `
		INSERT INTO notifications (student_id, professor_id, title, description, kind)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, is_read, created_at
	`

	err := r.QueryRow(
		ctx, query,
		n.StudentID,
		n.ProfessorID,
		n.Title,
		n.Description,
		string(n.Kind),
	).Scan(&n.ID, &n.Read, &n.CreatedAt)

	if err != nil {
		return fmt.Errorf("create notification: %w", err)
	}

	return nil
}

// GetByID получает уведомление по ID
func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*model.Notification, error) {
	query := `SELECT ` + notificationColumns + ` FROM notifications WHERE id = $1`

	n, err := scanNotification(r.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get notification by id: %w", err)
	}

	return n, nil
}

// ListByUser получает уведомления пользователя, новые первыми
func (r *NotificationRepository) ListByUser(ctx context.Context, userID int64, limit, offset int) ([]*model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE student_id = $1 OR professor_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	return r.list(ctx, "get notifications by user", query, userID, limit, offset)
}

// ListUnread получает непрочитанные уведомления пользователя
func (r *NotificationRepository) ListUnread(ctx context.Context, userID int64) ([]*model.Notification, error) {
	query := `
		SELECT ` + notificationColumns + `
		FROM notifications
		WHERE (student_id = $1 OR professor_id = $1) AND NOT is_read
		ORDER BY id
	`
	return r.list(ctx, "get unread notifications", query, userID)
}

// MarkRead отмечает одно уведомление прочитанным. false - уведомления нет.
func (r *NotificationRepository) MarkRead(ctx context.Context, id int64) (bool, error) {
	affected, err := r.ExecAffected(ctx, `UPDATE notifications SET is_read = true WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("mark notification read: %w", err)
	}
	return affected > 0, nil
}

// MarkReadBulk отмечает прочитанными переданные уведомления
func (r *NotificationRepository) MarkReadBulk(ctx context.Context, ids []int64) (int64, error) {
	affected, err := r.ExecAffected(ctx, `UPDATE notifications SET is_read = true WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("mark notifications read: %w", err)
	}
	return affected, nil
}

func (r *NotificationRepository) list(ctx context.Context, op, query string, args ...any) ([]*model.Notification, error) {
	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	var notifications []*model.Notification
	for rows.Next() {
		n, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}

func scanNotification(row pgx.Row) (*model.Notification, error) {
	var (
		n           model.Notification
		description *string
		kind        *string
	)
	err := row.Scan(&n.ID, &n.StudentID, &n.ProfessorID, &n.Title, &description, &kind, &n.Read, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	if description != nil {
		n.Description = *description
	}
	if kind != nil {
		n.Kind = model.NotificationKind(*kind)
	}
	return &n, nil
}
