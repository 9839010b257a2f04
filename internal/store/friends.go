package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"

	"github.com/pkucode2025/wedemo2025-sub001/internal/apperr"
	"github.com/pkucode2025/wedemo2025-sub001/internal/models"
	"github.com/pkucode2025/wedemo2025-sub001/internal/utils"
)

// FriendshipWelcome is the system message that opens every new chat.
const FriendshipWelcome = "We are now friends. Start chatting!"

var (
	ErrFriendRequestNotFound = apperr.NotFound("friend request not found")
	ErrFriendRequestMismatch = apperr.Validation("fromUserId does not match the friend request")
	ErrSelfFriendRequest     = apperr.Validation("you cannot send a friend request to yourself")
	ErrAlreadyFriends        = apperr.Validation("you are already friends")
	ErrRequestAlreadyPending = apperr.Validation("a friend request is already pending")
	ErrReverseRequestPending = apperr.Validation("this user has already sent you a friend request")
)

func (s *Store) AreFriends(ctx context.Context, userA, userB string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM friendships WHERE user_id = $1 AND friend_id = $2)
	`, userA, userB).Scan(&exists)
	if err != nil {
		return false, persistence("store.AreFriends", err)
	}
	return exists, nil
}

// SendFriendRequest records a pending request from fromUserID to toUserID.
func (s *Store) SendFriendRequest(ctx context.Context, fromUserID, toUserID string) (*models.FriendRequest, error) {
	if fromUserID == toUserID {
		return nil, ErrSelfFriendRequest
	}

	if _, err := s.GetUserByID(ctx, toUserID); err != nil {
		return nil, err
	}

	friends, err := s.AreFriends(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, err
	}
	if friends {
		return nil, ErrAlreadyFriends
	}

	reverse, err := s.hasPendingRequest(ctx, toUserID, fromUserID)
	if err != nil {
		return nil, err
	}
	if reverse {
		return nil, ErrReverseRequestPending
	}

	req := models.FriendRequest{
		ID:         uuid.NewString(),
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Status:     models.FriendRequestPending,
	}

	err = s.db.QueryRow(ctx, `
		INSERT INTO friend_requests (id, from_user_id, to_user_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at
	`, req.ID, req.FromUserID, req.ToUserID, req.Status).Scan(&req.CreatedAt)
	if err != nil {
		switch pgErrorCode(err) {
		case codeUniqueViolation:
			return nil, ErrRequestAlreadyPending
		case codeForeignKeyViolation:
			return nil, ErrUnknownUser
		}
		return nil, persistence("store.SendFriendRequest", err)
	}
	return &req, nil
}

func (s *Store) hasPendingRequest(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM friend_requests
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'
		)
	`, fromUserID, toUserID).Scan(&exists)
	if err != nil {
		return false, persistence("store.hasPendingRequest", err)
	}
	return exists, nil
}

// ListPendingRequests returns the requests waiting for toUserID, newest
// first. Requests from users who are already friends are left out.
func (s *Store) ListPendingRequests(ctx context.Context, toUserID string) ([]models.FriendRequestWithSender, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			r.id, r.from_user_id, r.to_user_id, r.status, r.created_at,
			u.id, u.username, u.display_name, u.avatar_url, u.bio, u.created_at
		FROM friend_requests r
		INNER JOIN users u ON r.from_user_id = u.id
		WHERE r.to_user_id = $1 AND r.status = 'pending'
			AND NOT EXISTS (
				SELECT 1 FROM friendships f
				WHERE f.user_id = r.to_user_id AND f.friend_id = r.from_user_id
			)
		ORDER BY r.created_at DESC
	`, toUserID)
	if err != nil {
		return nil, persistence("store.ListPendingRequests", err)
	}
	defer rows.Close()

	requests := []models.FriendRequestWithSender{}
	for rows.Next() {
		var r models.FriendRequestWithSender
		if err := rows.Scan(
			&r.ID, &r.FromUserID, &r.ToUserID, &r.Status, &r.CreatedAt,
			&r.Sender.ID, &r.Sender.Username, &r.Sender.DisplayName,
			&r.Sender.AvatarURL, &r.Sender.Bio, &r.Sender.CreatedAt,
		); err != nil {
			return nil, persistence("store.ListPendingRequests.Scan", err)
		}
		requests = append(requests, r)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("store.ListPendingRequests.Rows", err)
	}
	return requests, nil
}

// AcceptFriendRequest marks the request accepted, creates both friendship
// edges and posts the welcome message to the pair's chat, all in one
// transaction. A request that is missing, already accepted or addressed to
// someone else aborts the transaction with ErrFriendRequestNotFound.
// A pending request in the other direction is settled along with it. When
// the two were already friends no welcome is posted and the returned
// message is nil.
func (s *Store) AcceptFriendRequest(ctx context.Context, requestID, toUserID, fromUserID string) (*models.Message, error) {
	var welcome *models.Message

	err := s.WithTx(ctx, func(tx pgx.Tx) error {
		var storedFrom string
		err := tx.QueryRow(ctx, `
			UPDATE friend_requests SET status = 'accepted'
			WHERE id = $1 AND to_user_id = $2 AND status = 'pending'
			RETURNING from_user_id
		`, requestID, toUserID).Scan(&storedFrom)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrFriendRequestNotFound
		}
		if err != nil {
			return persistence("store.AcceptFriendRequest.MarkAccepted", err)
		}
		if storedFrom != fromUserID {
			return ErrFriendRequestMismatch
		}

		_, err = tx.Exec(ctx, `
			UPDATE friend_requests SET status = 'accepted'
			WHERE from_user_id = $1 AND to_user_id = $2 AND status = 'pending'
		`, toUserID, fromUserID)
		if err != nil {
			return persistence("store.AcceptFriendRequest.SettleReverse", err)
		}

		created, err := insertFriendEdge(ctx, tx, toUserID, fromUserID)
		if err != nil {
			return err
		}
		createdReverse, err := insertFriendEdge(ctx, tx, fromUserID, toUserID)
		if err != nil {
			return err
		}
		if !created && !createdReverse {
			return nil
		}

		welcome, err = insertMessage(ctx, tx, utils.ChatID(toUserID, fromUserID), models.SystemSenderID, FriendshipWelcome)
		return err
	})
	if err != nil {
		return nil, err
	}
	return welcome, nil
}

// insertFriendEdge reports whether the edge is new.
func insertFriendEdge(ctx context.Context, tx pgx.Tx, userID, friendID string) (bool, error) {
	tag, err := tx.Exec(ctx, `
		INSERT INTO friendships (user_id, friend_id)
		VALUES ($1, $2)
		ON CONFLICT (user_id, friend_id) DO NOTHING
	`, userID, friendID)
	if err != nil {
		return false, persistence("store.insertFriendEdge", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ListFriends returns userID's friends, most recently added first.
func (s *Store) ListFriends(ctx context.Context, userID string) ([]models.Friend, error) {
	rows, err := s.db.Query(ctx, `
		SELECT
			f.created_at,
			u.id, u.username, u.display_name, u.avatar_url, u.bio, u.created_at
		FROM friendships f
		INNER JOIN users u ON f.friend_id = u.id
		WHERE f.user_id = $1
		ORDER BY f.created_at DESC
	`, userID)
	if err != nil {
		return nil, persistence("store.ListFriends", err)
	}
	defer rows.Close()

	friends := []models.Friend{}
	for rows.Next() {
		var f models.Friend
		if err := rows.Scan(
			&f.AddedAt,
			&f.Friend.ID, &f.Friend.Username, &f.Friend.DisplayName,
			&f.Friend.AvatarURL, &f.Friend.Bio, &f.Friend.CreatedAt,
		); err != nil {
			return nil, persistence("store.ListFriends.Scan", err)
		}
		f.ChatID = utils.ChatID(userID, f.Friend.ID)
		friends = append(friends, f)
	}
	if err := rows.Err(); err != nil {
		return nil, persistence("store.ListFriends.Rows", err)
	}
	return friends, nil
}

// DeleteFriendship removes both edges between the two users and purges
// their chat history. Removing a friendship that does not exist is a no-op.
func (s *Store) DeleteFriendship(ctx context.Context, userID, friendID string) error {
	return s.WithTx(ctx, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
			DELETE FROM friendships
			WHERE (user_id = $1 AND friend_id = $2) OR (user_id = $2 AND friend_id = $1)
		`, userID, friendID)
		if err != nil {
			return persistence("store.DeleteFriendship.Edges", err)
		}

		_, err = tx.Exec(ctx, `DELETE FROM messages WHERE chat_id = $1`, utils.ChatID(userID, friendID))
		if err != nil {
			return persistence("store.DeleteFriendship.Messages", err)
		}
		return nil
	})
}
