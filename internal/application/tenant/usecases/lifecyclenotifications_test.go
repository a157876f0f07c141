package usecases

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"motordesk/internal/domain/shared/events"
	"motordesk/internal/domain/tenant"
	vo "motordesk/internal/domain/tenant/valueobjects"
	"motordesk/internal/domain/user"
	"motordesk/internal/infrastructure/persistence/models"
	"motordesk/internal/infrastructure/repository"
	"motordesk/internal/shared/authorization"
	"motordesk/internal/shared/db"
	"motordesk/internal/shared/logger"
)

type recordedNotice struct {
	kind string
	to   string
}

type recordingNotifier struct {
	notices []recordedNotice
	fail    bool
}

func (n *recordingNotifier) SendGraceNoticeEmail(to, tenantName, suspendDate string) error {
	return n.record("grace", to)
}

func (n *recordingNotifier) SendSuspensionEmail(to, tenantName string) error {
	return n.record("suspension", to)
}

func (n *recordingNotifier) SendCancellationEmail(to, tenantName, deletionDate string) error {
	return n.record("cancellation", to)
}

func (n *recordingNotifier) record(kind, to string) error {
	if n.fail {
		return fmt.Errorf("smtp unreachable")
	}
	n.notices = append(n.notices, recordedNotice{kind: kind, to: to})
	return nil
}

type notificationFixture struct {
	tenantRepo  tenant.Repository
	historyRepo tenant.HistoryRepository
	transition  *TransitionTenantStatusUseCase
	notifier    *recordingNotifier
	tenantID    uint
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(
		&models.TenantModel{},
		&models.TenantStatusHistoryModel{},
		&models.UserModel{},
	))

	log := logger.NewNop()
	tenantRepo := repository.NewTenantRepository(gormDB, log)
	historyRepo := repository.NewTenantStatusHistoryRepository(gormDB, log)
	userRepo := repository.NewUserRepository(gormDB, log)

	notifier := &recordingNotifier{}
	hooks := events.NewHookRunner(log)
	hooks.Register(tenant.EventTypeStatusChanged,
		NewStatusChangedEmailHook(tenantRepo, userRepo, notifier, 7, log))

	f := &notificationFixture{
		tenantRepo:  tenantRepo,
		historyRepo: historyRepo,
		transition: NewTransitionTenantStatusUseCase(
			tenantRepo, historyRepo, db.NewTransactionManager(gormDB), hooks, log),
		notifier: notifier,
	}

	ctx := context.Background()
	tn, err := tenant.NewTenant("Notice Motors", "starter", time.Now().UTC().AddDate(0, 0, -1))
	require.NoError(t, err)
	require.NoError(t, tenantRepo.Create(ctx, tn))

	owner, err := user.NewUser(tn.ID(), "owner@noticemotors.test", "hash", "Owner", authorization.RoleOwner)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, owner))

	staff, err := user.NewUser(tn.ID(), "staff@noticemotors.test", "hash", "Staff", authorization.RoleStaff)
	require.NoError(t, err)
	require.NoError(t, userRepo.Create(ctx, staff))

	f.tenantID = tn.ID()
	return f
}

func (f *notificationFixture) transitionTo(t *testing.T, to vo.SubscriptionStatus) {
	t.Helper()
	_, err := f.transition.Execute(context.Background(), TransitionTenantStatusCommand{
		TenantID: f.tenantID, To: to, Reason: "test", TriggeredBy: tenant.TriggeredBySweeper,
	})
	require.NoError(t, err)
}

func TestStatusChangedEmailHook_NotifiesOwner(t *testing.T) {
	f := newNotificationFixture(t)

	f.transitionTo(t, vo.StatusGrace)
	f.transitionTo(t, vo.StatusSuspended)
	f.transitionTo(t, vo.StatusCancelled)

	require.Len(t, f.notifier.notices, 3)
	assert.Equal(t, "grace", f.notifier.notices[0].kind)
	assert.Equal(t, "suspension", f.notifier.notices[1].kind)
	assert.Equal(t, "cancellation", f.notifier.notices[2].kind)
	for _, n := range f.notifier.notices {
		assert.Equal(t, "owner@noticemotors.test", n.to, "only the owner is notified")
	}
}

func TestStatusChangedEmailHook_ActivationSendsNothing(t *testing.T) {
	f := newNotificationFixture(t)

	f.transitionTo(t, vo.StatusActive)

	assert.Empty(t, f.notifier.notices)
}

func TestStatusChangedEmailHook_FailureDoesNotBlockTransition(t *testing.T) {
	f := newNotificationFixture(t)
	f.notifier.fail = true

	f.transitionTo(t, vo.StatusGrace)

	got, err := f.tenantRepo.GetByID(context.Background(), f.tenantID)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusGrace, got.Status(), "mail failure never rolls back the transition")
}
