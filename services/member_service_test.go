package services

import (
	"context"
	"strings"
	"testing"

	"pupcare/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newMemberFixture(t *testing.T) (*MemberService, *fakeMailer, *gorm.DB, *models.Puppy, *models.User) {
	t.Helper()
	db := newTestDB(t)
	owner := createUser(t, db, "owner@example.com")
	p, err := NewPuppyService(db, nil, nil).Create(context.Background(), owner.ID, PuppyInput{Name: "Biscuit"})
	require.NoError(t, err)

	mailer := &fakeMailer{}
	feed := NewChangeFeed(NewRealtimeHub(), NewAlertBus(db, nil, nil), nil, nil)
	return NewMemberService(db, mailer, feed, nil), mailer, db, p, owner
}

func TestInviteAndAccept(t *testing.T) {
	ctx := context.Background()
	svc, mailer, db, p, owner := newMemberFixture(t)
	friend := createUser(t, db, "friend@example.com")

	role, err := svc.RoleFor(ctx, p.ID, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleOwner, role)

	_, err = svc.RoleFor(ctx, p.ID, friend.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	inv, err := svc.Invite(ctx, p.ID, owner.ID, "Friend@Example.com", models.RoleViewer)
	require.NoError(t, err)
	assert.Len(t, inv.Token, 32)
	require.Len(t, mailer.sent, 1)
	assert.True(t, strings.HasPrefix(mailer.sent[0], "friend@example.com|viewer|"))

	m, err := svc.Accept(ctx, inv.Token, friend.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, m.Role)

	role, err = svc.RoleFor(ctx, p.ID, friend.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, role)

	_, err = svc.Accept(ctx, inv.Token, friend.ID)
	assert.ErrorIs(t, err, ErrConflict, "an invitation is redeemed once")

	ids, err := svc.MemberIDs(ctx, p.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []uint{owner.ID, friend.ID}, ids)

	// the owner hears about the new member
	var alerts []models.Alert
	require.NoError(t, db.Where("user_id = ?", owner.ID).Find(&alerts).Error)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0].Message, "friend@example.com")
}

func TestAcceptRequiresMatchingEmail(t *testing.T) {
	ctx := context.Background()
	svc, _, db, p, owner := newMemberFixture(t)
	stranger := createUser(t, db, "stranger@example.com")

	inv, err := svc.Invite(ctx, p.ID, owner.ID, "friend@example.com", models.RoleEditor)
	require.NoError(t, err)

	_, err = svc.Accept(ctx, inv.Token, stranger.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.Accept(ctx, "no-such-token", stranger.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestInviteRejectsOwnerRole(t *testing.T) {
	svc, _, _, p, owner := newMemberFixture(t)
	_, err := svc.Invite(context.Background(), p.ID, owner.ID, "x@example.com", models.RoleOwner)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateRoleAndRemove(t *testing.T) {
	ctx := context.Background()
	svc, _, db, p, owner := newMemberFixture(t)
	friend := createUser(t, db, "friend@example.com")
	addMember(t, db, p.ID, friend.ID, models.RoleViewer)

	m, err := svc.UpdateRole(ctx, p.ID, friend.ID, models.RoleEditor)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEditor, m.Role)

	_, err = svc.UpdateRole(ctx, p.ID, owner.ID, models.RoleViewer)
	assert.ErrorIs(t, err, ErrForbidden, "the owner cannot be demoted")
	assert.ErrorIs(t, svc.Remove(ctx, p.ID, owner.ID), ErrForbidden)

	require.NoError(t, svc.Remove(ctx, p.ID, friend.ID))
	_, err = svc.RoleFor(ctx, p.ID, friend.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.Remove(ctx, p.ID, friend.ID), ErrNotFound)

	members, err := svc.List(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "owner@example.com", members[0].User.Email)
}

func TestRoleRanks(t *testing.T) {
	assert.True(t, models.RoleOwner.AtLeast(models.RoleEditor))
	assert.True(t, models.RoleEditor.CanMutate())
	assert.False(t, models.RoleViewer.CanMutate())
	assert.False(t, models.Role("").AtLeast(models.RoleViewer))

	r, ok := models.ParseRole(" Editor ")
	assert.True(t, ok)
	assert.Equal(t, models.RoleEditor, r)
	_, ok = models.ParseRole("admin")
	assert.False(t, ok)
}
