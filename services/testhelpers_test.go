package services

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"pupcare/config"
	"pupcare/models"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := config.OpenDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func createUser(t *testing.T, db *gorm.DB, email string) *models.User {
	t.Helper()
	u := &models.User{Email: email, Password: "x", FullName: email}
	require.NoError(t, db.Create(u).Error)
	return u
}

// addMember grants role on puppy without going through invitations.
func addMember(t *testing.T, db *gorm.DB, puppyID, userID uint, role models.Role) {
	t.Helper()
	require.NoError(t, db.Create(&models.Membership{PuppyID: puppyID, UserID: userID, Role: role}).Error)
}

type recordingSink struct {
	mu   sync.Mutex
	days []DaySummary
}

func (r *recordingSink) PublishDay(puppyID uint, s DaySummary) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.days = append(r.days, s)
	return nil
}

func (r *recordingSink) last() DaySummary {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.days[len(r.days)-1]
}

type fakeMailer struct {
	sent []string
}

func (m *fakeMailer) SendInvitation(ctx context.Context, to, puppyName, role, token string) error {
	m.sent = append(m.sent, to+"|"+role+"|"+token)
	return nil
}

type fakeUploader struct{ url string }

func (f fakeUploader) UploadBase64Image(ctx context.Context, data, prefix string) (string, error) {
	return f.url + "/" + prefix + ".jpg", nil
}

// fixedClock pins "today" for services that read the time.
func fixedClock(s string) func() time.Time {
	d, err := time.ParseInLocation("2006-01-02 15:04", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return func() time.Time { return d }
}
