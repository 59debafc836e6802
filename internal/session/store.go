package session

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/magabrotheeeer/therapy-booking-front/internal/cache"
	"github.com/magabrotheeeer/therapy-booking-front/internal/lib/sl"
)

// Session — запись сессии в redis.
type Session struct {
	ID           string    `json:"id"`
	UserUID      string    `json:"user_uid"`
	Email        string    `json:"email"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	CreatedAt    time.Time `json:"created_at"`
}

// Refresher обменивает refresh-токен на новую пару токенов.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (accessToken, newRefreshToken string, err error)
}

const (
	// eventSaved и eventDeleted публикуются в канал событий сессии.
	eventSaved   = "saved"
	eventDeleted = "deleted"

	draftTTL = 24 * time.Hour
)

// retryDelay — пауза перед повторным чтением сессии, если redis недоступен.
var retryDelay = 500 * time.Millisecond

func sessionKey(id string) string    { return "session:" + id }
func eventsChannel(id string) string { return "session-events:" + id }
func draftKey(id string) string      { return "draft:" + id }

// Store хранит сессии в redis и оповещает наблюдателей через pub/sub.
type Store struct {
	cache     *cache.Cache
	ttl       time.Duration
	skew      time.Duration
	refresher Refresher
	log       *slog.Logger
}

// NewStore создаёт хранилище. refresher может быть nil — тогда токены не обновляются.
func NewStore(c *cache.Cache, ttl, refreshSkew time.Duration, refresher Refresher, log *slog.Logger) *Store {
	return &Store{
		cache:     c,
		ttl:       ttl,
		skew:      refreshSkew,
		refresher: refresher,
		log:       log,
	}
}

// Create заводит новую сессию после успешного входа.
func (s *Store) Create(ctx context.Context, userUID, email, accessToken, refreshToken string) (*Session, error) {
	sess := &Session{
		ID:           uuid.NewString(),
		UserUID:      userUID,
		Email:        email,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.Save(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Save сохраняет сессию и оповещает наблюдателей.
func (s *Store) Save(ctx context.Context, sess *Session) error {
	const op = "session.Save"
	if err := s.cache.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Publish(ctx, eventsChannel(sess.ID), eventSaved); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Get читает сессию. Второе значение false, если сессии нет или она истекла.
func (s *Store) Get(ctx context.Context, id string) (*Session, bool, error) {
	const op = "session.Get"
	if id == "" {
		return nil, false, nil
	}
	var sess Session
	found, err := s.cache.Get(ctx, sessionKey(id), &sess)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, false, nil
	}
	return &sess, true, nil
}

// Delete завершает сессию (выход) и оповещает наблюдателей.
func (s *Store) Delete(ctx context.Context, id string) error {
	const op = "session.Delete"
	if err := s.cache.Invalidate(ctx, sessionKey(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Invalidate(ctx, draftKey(id)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Publish(ctx, eventsChannel(id), eventDeleted); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Identity возвращает личность сессии или nil, если вход не выполнен.
func (s *Store) Identity(ctx context.Context, id string) (*Identity, error) {
	sess, found, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return NewIdentity(sess.ID, sess.UserUID, sess.Email, sessionTokens{store: s, sessionID: sess.ID}), nil
}

// Token возвращает access-токен сессии, при необходимости обновляя его.
// Токен обновляется, если до истечения меньше refreshSkew.
func (s *Store) Token(ctx context.Context, sessionID string) (string, error) {
	const op = "session.Token"
	sess, found, err := s.Get(ctx, sessionID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return "", ErrSignedOut
	}
	if s.refresher == nil || sess.RefreshToken == "" || !expiresWithin(sess.AccessToken, s.skew) {
		return sess.AccessToken, nil
	}

	access, refresh, err := s.refresher.Refresh(ctx, sess.RefreshToken)
	if err != nil {
		return "", fmt.Errorf("%s: refresh: %w", op, err)
	}
	sess.AccessToken = access
	if refresh != "" {
		sess.RefreshToken = refresh
	}
	// Личность не меняется, поэтому наблюдателей не оповещаем.
	if err = s.cache.Set(ctx, sessionKey(sess.ID), sess, s.ttl); err != nil {
		s.log.Warn("failed to persist refreshed token", slog.String("op", op), sl.Err(err))
	}
	return access, nil
}

// SaveDraft сохраняет черновик анкеты верификации.
func (s *Store) SaveDraft(ctx context.Context, sessionID string, draft any) error {
	const op = "session.SaveDraft"
	if err := s.cache.Set(ctx, draftKey(sessionID), draft, draftTTL); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Draft читает черновик анкеты в out.
func (s *Store) Draft(ctx context.Context, sessionID string, out any) (bool, error) {
	const op = "session.Draft"
	found, err := s.cache.Get(ctx, draftKey(sessionID), out)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

// ClearDraft удаляет черновик анкеты.
func (s *Store) ClearDraft(ctx context.Context, sessionID string) error {
	const op = "session.ClearDraft"
	if err := s.cache.Invalidate(ctx, draftKey(sessionID)); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// Source возвращает источник, который наблюдает за сессией через pub/sub.
func (s *Store) Source(sessionID string) Source {
	return watchSource{store: s, sessionID: sessionID}
}

// Snapshot возвращает источник, который сообщает только текущее состояние сессии.
// Подходит для разовой проверки доступа в рамках одного запроса.
func (s *Store) Snapshot(sessionID string) Source {
	return snapshotSource{store: s, sessionID: sessionID}
}

// resolve читает личность, повторяя попытки, пока хранилище недоступно:
// ошибка чтения не должна превращаться в «вход не выполнен».
func (s *Store) resolve(ctx context.Context, sessionID string) (*Identity, error) {
	for {
		ident, err := s.Identity(ctx, sessionID)
		if err == nil {
			return ident, nil
		}
		s.log.Warn("session store unavailable, retrying", sl.Err(err))
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(retryDelay):
		}
	}
}

type sessionTokens struct {
	store     *Store
	sessionID string
}

func (t sessionTokens) Token(ctx context.Context) (string, error) {
	return t.store.Token(ctx, t.sessionID)
}

type snapshotSource struct {
	store     *Store
	sessionID string
}

func (src snapshotSource) Watch(ctx context.Context) (<-chan *Identity, error) {
	out := make(chan *Identity, 1)
	go func() {
		defer close(out)
		ident, err := src.store.resolve(ctx, src.sessionID)
		if err != nil {
			return
		}
		out <- ident
		<-ctx.Done()
	}()
	return out, nil
}

type watchSource struct {
	store     *Store
	sessionID string
}

func (src watchSource) Watch(ctx context.Context) (<-chan *Identity, error) {
	const op = "session.Watch"
	if src.sessionID == "" {
		return snapshotSource(src).Watch(ctx)
	}

	pubsub, err := src.store.cache.Subscribe(ctx, eventsChannel(src.sessionID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	out := make(chan *Identity, 1)
	go func() {
		defer close(out)
		defer func() { _ = pubsub.Close() }()

		send := func(ident *Identity) bool {
			select {
			case out <- ident:
				return true
			case <-ctx.Done():
				return false
			}
		}

		ident, err := src.store.resolve(ctx, src.sessionID)
		if err != nil || !send(ident) {
			return
		}

		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-messages:
				if !ok {
					return
				}
				ident, err := src.store.resolve(ctx, src.sessionID)
				if err != nil || !send(ident) {
					return
				}
			}
		}
	}()
	return out, nil
}

// expiresWithin сообщает, истекает ли JWT раньше, чем через skew.
// Подпись не проверяется: токен выдан бэкендом, здесь нужен только exp.
// Непрозрачные токены и токены без exp считаются бессрочными.
func expiresWithin(token string, skew time.Duration) bool {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return false
	}
	if claims.ExpiresAt == nil {
		return false
	}
	return time.Until(claims.ExpiresAt.Time) < skew
}
