package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"traveleo/internal/amqp"
	"traveleo/internal/auth"
	"traveleo/internal/core"
	applog "traveleo/internal/log"
	"traveleo/internal/notify"
	"traveleo/internal/storage"
)

const testSecret = "test-secret-at-least-32-bytes-long!!"

type fakePublisher struct {
	mu     sync.Mutex
	events []amqp.ExpenseCreated
	err    error
}

func (p *fakePublisher) PublishExpenseCreated(_ context.Context, e amqp.ExpenseCreated) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

type ServicesSuite struct {
	suite.Suite
	ctx      context.Context
	store    *storage.Store
	now      time.Time
	mail     *notify.MemoryMailer
	async    *notify.MemoryMailer
	notifier *notify.Notifier
	codes    []string

	auth       *AuthService
	trips      *TripService
	budgets    *BudgetService
	categories *CategoryService
	expenses   *ExpenseService
	insights   *InsightService
	reminders  *ReminderService
	publisher  *fakePublisher
}

func TestServicesSuite(t *testing.T) {
	suite.Run(t, new(ServicesSuite))
}

func (s *ServicesSuite) SetupTest() {
	s.ctx = applog.NewContext(context.Background(), applog.Discard())
	s.now = time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)

	store, err := storage.Open(s.ctx, storage.Options{
		Driver:     storage.DriverSQLite,
		SQLitePath: filepath.Join(s.T().TempDir(), "traveleo.db"),
	})
	s.Require().NoError(err)
	s.store = store

	s.mail = &notify.MemoryMailer{}
	s.async = &notify.MemoryMailer{}
	s.notifier = notify.NewNotifier(s.mail, s.async, applog.Discard())
	s.codes = nil
	clock := func() time.Time { return s.now }

	s.auth = NewAuthService(store, auth.NewTokens(testSecret, 24*time.Hour), s.notifier, 5*time.Minute)
	s.auth.now = clock
	seq := 100000
	s.auth.generateOTP = func() (string, error) {
		seq++
		code := fmt.Sprint(seq)
		s.codes = append(s.codes, code)
		return code, nil
	}

	s.trips = NewTripService(store)
	s.trips.now = clock
	s.budgets = NewBudgetService(store)
	s.budgets.now = clock
	s.categories = NewCategoryService(store)
	s.categories.now = clock
	s.publisher = &fakePublisher{}
	s.expenses = NewExpenseService(store, s.publisher)
	s.expenses.now = clock
	s.insights = NewInsightService(store)
	s.reminders = NewReminderService(store, s.notifier)
	s.reminders.now = clock
}

func (s *ServicesSuite) TearDownTest() {
	s.notifier.Wait()
	s.Require().NoError(s.store.Close())
}

func (s *ServicesSuite) signup(name, email string) core.User {
	u, err := s.auth.Signup(s.ctx, core.Signup{Name: name, Email: email, Password: "pw123456"})
	s.Require().NoError(err)
	return u
}

func (s *ServicesSuite) lastCode() string {
	s.Require().NotEmpty(s.codes)
	return s.codes[len(s.codes)-1]
}

func (s *ServicesSuite) newTrip(userID int64, title string, budget int64) core.TripWithBudget {
	trip, err := s.trips.CreateTripWithBudget(s.ctx, userID, core.NewTrip{
		Title:       title,
		StartDate:   core.NewDate(2025, 1, 1),
		EndDate:     core.NewDate(2025, 1, 5),
		TotalBudget: core.Money{Cents: budget * 100},
	})
	s.Require().NoError(err)
	return trip
}

func (s *ServicesSuite) categoryID(userID int64, name string) int64 {
	cats, err := s.categories.ListCategories(s.ctx, userID)
	s.Require().NoError(err)
	for _, c := range cats {
		if c.Name == name {
			return c.ID
		}
	}
	s.FailNow("category not found", name)
	return 0
}

func (s *ServicesSuite) spend(userID, tripID int64, category string, rupees int64) core.Expense {
	e, err := s.expenses.AddExpense(s.ctx, userID, core.NewExpense{
		TripID:      tripID,
		CategoryID:  s.categoryID(userID, category),
		Amount:      core.Money{Cents: rupees * 100},
		ExpenseDate: core.NewDate(2025, 1, 2),
	})
	s.Require().NoError(err)
	return e
}

func (s *ServicesSuite) requireKind(err error, kind core.Kind, msg string) {
	s.Require().Error(err)
	s.Equal(kind, core.KindOf(err), err.Error())
	if msg != "" {
		s.Equal(msg, core.MessageOf(err))
	}
}

func (s *ServicesSuite) TestEndToEnd() {
	user := s.signup("A", "a@x.com")

	cats, err := s.categories.ListCategories(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Len(cats, 7)

	res, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().NoError(err)
	s.True(res.OTPRequired)
	s.Equal(user.ID, res.UserID)

	_, err = s.auth.VerifyOTP(s.ctx, user.ID, "000000")
	s.requireKind(err, core.KindAuth, "Invalid OTP")

	session, err := s.auth.VerifyOTP(s.ctx, user.ID, s.lastCode())
	s.Require().NoError(err)
	s.NotEmpty(session.Token)
	s.Equal("a@x.com", session.User.Email)

	n, err := s.store.CountOTPsForUser(s.ctx, user.ID)
	s.Require().NoError(err)
	s.Zero(n)

	claims, err := s.auth.Authenticate(session.Token)
	s.Require().NoError(err)
	s.Equal(user.ID, claims.ID)

	trip, err := s.trips.CreateTripWithBudget(s.ctx, claims.ID, core.NewTrip{
		Title:       "Goa Trip",
		StartDate:   core.NewDate(2025, 1, 1),
		EndDate:     core.NewDate(2025, 1, 5),
		TotalBudget: core.Money{Cents: 1000000},
	})
	s.Require().NoError(err)
	s.Require().NotNil(trip.TotalBudget)
	s.Equal(int64(1000000), trip.TotalBudget.Cents)

	s.spend(user.ID, trip.ID, "Food", 2500)

	status, err := s.budgets.GetBudgetWithSpend(s.ctx, user.ID, trip.ID)
	s.Require().NoError(err)
	s.Equal(core.BudgetStatus{
		TotalBudget: core.Money{Cents: 1000000},
		TotalSpent:  core.Money{Cents: 250000},
		Remaining:   core.Money{Cents: 750000},
		Status:      core.StatusWithinBudget,
	}, status)

	s.Require().NoError(s.trips.DeleteTrip(s.ctx, user.ID, trip.ID))
	_, err = s.trips.GetTrip(s.ctx, user.ID, trip.ID)
	s.requireKind(err, core.KindNotFound, "Trip not found")
}

func (s *ServicesSuite) TestSignupSendsWelcomeInBackground() {
	s.signup("Asha", "asha@example.com")
	s.notifier.Wait()

	sent := s.async.Sent()
	s.Require().Len(sent, 1)
	s.Equal("asha@example.com", sent[0].To)
	s.Equal(notify.SubjectWelcome, sent[0].Subject)
	s.Empty(s.mail.Sent())
}

func (s *ServicesSuite) TestSignupWelcomeFailureIsIgnored() {
	s.async.Err = errors.New("smtp down")
	u := s.signup("Asha", "asha@example.com")
	s.NotZero(u.ID)
}

func (s *ServicesSuite) TestSignupDuplicateEmail() {
	first := s.signup("Asha", "asha@example.com")

	_, err := s.auth.Signup(s.ctx, core.Signup{Name: "Other", Email: "ASHA@example.com", Password: "pw123456"})
	s.requireKind(err, core.KindConflict, "Email already exists")

	// The failed signup must not leave a second set of categories behind.
	cats, err := s.categories.ListCategories(s.ctx, first.ID)
	s.Require().NoError(err)
	s.Len(cats, 7)

	users, err := s.auth.ListUsers(s.ctx)
	s.Require().NoError(err)
	s.Len(users, 1)
}

func (s *ServicesSuite) TestSignupValidation() {
	tests := []struct {
		name string
		in   core.Signup
	}{
		{"missing name", core.Signup{Email: "a@x.com", Password: "pw123456"}},
		{"missing email", core.Signup{Name: "A", Password: "pw123456"}},
		{"bad email", core.Signup{Name: "A", Email: "nope", Password: "pw123456"}},
		{"short password", core.Signup{Name: "A", Email: "a@x.com", Password: "123"}},
	}
	for _, tt := range tests {
		s.Run(tt.name, func() {
			_, err := s.auth.Signup(s.ctx, tt.in)
			s.requireKind(err, core.KindValidation, "")
		})
	}
}

func (s *ServicesSuite) TestLoginRejectsBadCredentials() {
	s.signup("A", "a@x.com")

	_, err := s.auth.Login(s.ctx, "a@x.com", "wrong-password")
	s.requireKind(err, core.KindAuth, core.MsgInvalidCredentials)

	_, err = s.auth.Login(s.ctx, "nobody@x.com", "pw123456")
	s.requireKind(err, core.KindAuth, core.MsgInvalidCredentials)

	s.Empty(s.mail.Sent())
}

func (s *ServicesSuite) TestLoginSendsOTPSynchronously() {
	u := s.signup("A", "a@x.com")

	_, err := s.auth.Login(s.ctx, " A@X.com ", "pw123456")
	s.Require().NoError(err)

	sent := s.mail.Sent()
	s.Require().Len(sent, 1)
	s.Equal(notify.SubjectLoginOTP, sent[0].Subject)
	s.Contains(sent[0].HTML, s.lastCode())

	n, err := s.store.CountOTPsForUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *ServicesSuite) TestLoginFailsWhenOTPMailFails() {
	s.signup("A", "a@x.com")
	s.mail.Err = errors.New("smtp down")

	_, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().Error(err)
	s.Equal(core.KindInternal, core.KindOf(err))
}

func (s *ServicesSuite) TestResendReplacesPreviousCode() {
	u := s.signup("A", "a@x.com")
	_, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().NoError(err)
	first := s.lastCode()

	s.Require().NoError(s.auth.ResendOTP(s.ctx, u.ID))
	second := s.lastCode()
	s.NotEqual(first, second)

	n, err := s.store.CountOTPsForUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, n)

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, first)
	s.requireKind(err, core.KindAuth, core.MsgInvalidOTP)

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, second)
	s.Require().NoError(err)
}

func (s *ServicesSuite) TestResendUnknownUser() {
	err := s.auth.ResendOTP(s.ctx, 4242)
	s.requireKind(err, core.KindNotFound, core.MsgUserNotFound)
}

func (s *ServicesSuite) TestOTPIsSingleUse() {
	u := s.signup("A", "a@x.com")
	_, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().NoError(err)
	code := s.lastCode()

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, code)
	s.Require().NoError(err)

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, code)
	s.requireKind(err, core.KindAuth, core.MsgInvalidOTP)
}

func (s *ServicesSuite) TestWrongOTPKeepsPendingCode() {
	u := s.signup("A", "a@x.com")
	_, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().NoError(err)

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, "999999")
	s.requireKind(err, core.KindAuth, core.MsgInvalidOTP)

	n, err := s.store.CountOTPsForUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Equal(1, n)
}

func (s *ServicesSuite) TestExpiredOTPIsDeleted() {
	u := s.signup("A", "a@x.com")
	_, err := s.auth.Login(s.ctx, "a@x.com", "pw123456")
	s.Require().NoError(err)
	code := s.lastCode()

	s.now = s.now.Add(6 * time.Minute)
	_, err = s.auth.VerifyOTP(s.ctx, u.ID, code)
	s.requireKind(err, core.KindAuth, core.MsgOTPExpired)

	n, err := s.store.CountOTPsForUser(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Zero(n)

	_, err = s.auth.VerifyOTP(s.ctx, u.ID, code)
	s.requireKind(err, core.KindAuth, core.MsgInvalidOTP)
}

func (s *ServicesSuite) TestAuthenticateRejectsGarbage() {
	_, err := s.auth.Authenticate("not-a-token")
	s.requireKind(err, core.KindAuth, core.MsgInvalidToken)

	other := auth.NewTokens("another-secret-of-sufficient-length", time.Hour)
	token, err := other.Sign(1, "a@x.com")
	s.Require().NoError(err)
	_, err = s.auth.Authenticate(token)
	s.requireKind(err, core.KindAuth, core.MsgInvalidToken)
}

func (s *ServicesSuite) TestCreateTripValidation() {
	u := s.signup("A", "a@x.com")

	_, err := s.trips.CreateTripWithBudget(s.ctx, u.ID, core.NewTrip{
		Title:       "Backwards",
		StartDate:   core.NewDate(2025, 1, 5),
		EndDate:     core.NewDate(2025, 1, 1),
		TotalBudget: core.Money{Cents: 100},
	})
	s.requireKind(err, core.KindValidation, core.ErrDateRange.Error())

	_, err = s.trips.CreateTripWithBudget(s.ctx, u.ID, core.NewTrip{
		Title:     "Free",
		StartDate: core.NewDate(2025, 1, 1),
		EndDate:   core.NewDate(2025, 1, 1),
	})
	s.requireKind(err, core.KindValidation, core.ErrInvalidBudget.Error())

	trips, err := s.trips.ListTrips(s.ctx, u.ID)
	s.Require().NoError(err)
	s.Empty(trips)
}

func (s *ServicesSuite) TestTripsAreScopedToOwner() {
	a := s.signup("A", "a@x.com")
	b := s.signup("B", "b@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	s.spend(a.ID, trip.ID, "Food", 100)
	s.spend(a.ID, trip.ID, "Stay", 200)

	_, err := s.trips.GetTrip(s.ctx, b.ID, trip.ID)
	s.requireKind(err, core.KindNotFound, core.MsgTripNotFound)

	err = s.trips.DeleteTrip(s.ctx, b.ID, trip.ID)
	s.requireKind(err, core.KindNotFound, core.MsgTripNotFound)

	ownLines, err := s.expenses.ListExpensesForTrip(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Len(ownLines, 2)

	status, err := s.budgets.GetBudgetWithSpend(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Equal(int64(1000000), status.TotalBudget.Cents)
	s.Equal(int64(30000), status.TotalSpent.Cents)

	_, err = s.budgets.SetBudget(s.ctx, b.ID, trip.ID, core.Money{Cents: 5})
	s.requireKind(err, core.KindNotFound, core.MsgTripNotFound)

	_, err = s.budgets.GetBudgetWithSpend(s.ctx, b.ID, trip.ID)
	s.requireKind(err, core.KindNotFound, core.MsgBudgetNotSet)

	_, err = s.expenses.AddExpense(s.ctx, b.ID, core.NewExpense{
		TripID:      trip.ID,
		CategoryID:  s.categoryID(b.ID, "Food"),
		Amount:      core.Money{Cents: 100},
		ExpenseDate: core.NewDate(2025, 1, 2),
	})
	s.requireKind(err, core.KindNotFound, core.MsgTripOrCategory)

	lines, err := s.expenses.ListExpensesForTrip(s.ctx, b.ID, trip.ID)
	s.Require().NoError(err)
	s.Empty(lines)

	bTrips, err := s.trips.ListTrips(s.ctx, b.ID)
	s.Require().NoError(err)
	s.Empty(bTrips)

	_, err = s.trips.GetTrip(s.ctx, a.ID, trip.ID)
	s.NoError(err)
}

func (s *ServicesSuite) TestExpenseWithForeignCategory() {
	a := s.signup("A", "a@x.com")
	b := s.signup("B", "b@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)

	_, err := s.expenses.AddExpense(s.ctx, a.ID, core.NewExpense{
		TripID:      trip.ID,
		CategoryID:  s.categoryID(b.ID, "Food"),
		Amount:      core.Money{Cents: 100},
		ExpenseDate: core.NewDate(2025, 1, 2),
	})
	s.requireKind(err, core.KindNotFound, core.MsgTripOrCategory)
	s.Empty(s.publisher.events)
}

func (s *ServicesSuite) TestExpenseValidation() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)

	_, err := s.expenses.AddExpense(s.ctx, a.ID, core.NewExpense{
		TripID:      trip.ID,
		CategoryID:  s.categoryID(a.ID, "Food"),
		Amount:      core.Money{Cents: 0},
		ExpenseDate: core.NewDate(2025, 1, 2),
	})
	s.requireKind(err, core.KindValidation, core.ErrInvalidAmount.Error())
}

func (s *ServicesSuite) TestExpensePublishesEvent() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	desc := "Fish thali"

	e, err := s.expenses.AddExpense(s.ctx, a.ID, core.NewExpense{
		TripID:      trip.ID,
		CategoryID:  s.categoryID(a.ID, "Food"),
		Amount:      core.Money{Cents: 45050},
		Description: &desc,
		ExpenseDate: core.NewDate(2025, 1, 3),
	})
	s.Require().NoError(err)

	s.Require().Len(s.publisher.events, 1)
	s.Equal(amqp.ExpenseCreated{
		ExpenseID:   e.ID,
		UserID:      a.ID,
		TripID:      trip.ID,
		TripTitle:   "Goa Trip",
		Category:    "Food",
		AmountCents: 45050,
		Description: "Fish thali",
		ExpenseDate: "2025-01-03",
	}, s.publisher.events[0])
}

func (s *ServicesSuite) TestExpenseSurvivesPublishFailure() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	s.publisher.err = errors.New("broker down")

	s.spend(a.ID, trip.ID, "Food", 10)

	lines, err := s.expenses.ListExpensesForTrip(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Len(lines, 1)
}

func (s *ServicesSuite) TestExpenseWithoutPublisher() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	s.expenses = NewExpenseService(s.store, nil)

	s.spend(a.ID, trip.ID, "Stay", 10)
}

func (s *ServicesSuite) TestDeleteTripRemovesExpensesAndBudget() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	s.spend(a.ID, trip.ID, "Food", 100)
	s.spend(a.ID, trip.ID, "Stay", 200)

	s.Require().NoError(s.trips.DeleteTrip(s.ctx, a.ID, trip.ID))

	lines, err := s.expenses.ListExpensesForTrip(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Empty(lines)

	_, err = s.store.GetBudget(s.ctx, a.ID, trip.ID)
	s.ErrorIs(err, storage.ErrNotFound)

	err = s.trips.DeleteTrip(s.ctx, a.ID, trip.ID)
	s.requireKind(err, core.KindNotFound, core.MsgTripNotFound)
}

func (s *ServicesSuite) TestSetBudgetOverwrites() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)

	b, err := s.budgets.SetBudget(s.ctx, a.ID, trip.ID, core.Money{Cents: 500000})
	s.Require().NoError(err)
	s.Equal(int64(500000), b.TotalBudget.Cents)

	_, err = s.budgets.SetBudget(s.ctx, a.ID, trip.ID, core.Money{Cents: -1})
	s.requireKind(err, core.KindValidation, core.ErrInvalidBudget.Error())

	status, err := s.budgets.GetBudgetWithSpend(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Equal(int64(500000), status.TotalBudget.Cents)
}

func (s *ServicesSuite) TestOverBudget() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 1000)
	s.spend(a.ID, trip.ID, "Food", 800)
	s.spend(a.ID, trip.ID, "Stay", 700)

	status, err := s.budgets.GetBudgetWithSpend(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)
	s.Equal(core.StatusOverBudget, status.Status)
	s.Equal(int64(-50000), status.Remaining.Cents)
}

func (s *ServicesSuite) TestInsights() {
	a := s.signup("A", "a@x.com")
	trip := s.newTrip(a.ID, "Goa Trip", 10000)
	s.spend(a.ID, trip.ID, "Food", 1500)
	s.spend(a.ID, trip.ID, "Stay", 2000)
	s.spend(a.ID, trip.ID, "Food", 1000)

	got, err := s.insights.ComputeInsights(s.ctx, a.ID, trip.ID)
	s.Require().NoError(err)

	s.Equal(core.InsightSummary{
		TotalBudget: core.Money{Cents: 1000000},
		TotalSpent:  core.Money{Cents: 450000},
		Remaining:   core.Money{Cents: 550000},
	}, got.Summary)
	s.Require().Len(got.CategoryBreakdown, 2)
	s.Equal("Food", got.CategoryBreakdown[0].Category)
	s.Equal("Stay", got.CategoryBreakdown[1].Category)
	s.Equal([]string{
		"You have ₹5500.00 remaining.",
		"Highest spending is on Food (25.0% of budget).",
	}, got.Insights)
}

func (s *ServicesSuite) TestInsightsWithoutBudget() {
	_, err := s.insights.ComputeInsights(s.ctx, 1, 99)
	s.requireKind(err, core.KindNotFound, core.MsgBudgetNotSet)
}

func (s *ServicesSuite) TestCategories() {
	a := s.signup("A", "a@x.com")

	c, err := s.categories.CreateCategory(s.ctx, a.ID, "  Visa fees ")
	s.Require().NoError(err)
	s.Equal("Visa fees", c.Name)

	_, err = s.categories.CreateCategory(s.ctx, a.ID, "Food")
	s.requireKind(err, core.KindConflict, core.MsgCategoryExists)

	_, err = s.categories.CreateCategory(s.ctx, a.ID, "   ")
	s.requireKind(err, core.KindValidation, core.ErrEmptyCategory.Error())

	cats, err := s.categories.ListCategories(s.ctx, a.ID)
	s.Require().NoError(err)
	s.Require().Len(cats, 8)
	s.Equal("Entertainment", cats[0].Name)
	s.Equal("Visa fees", cats[7].Name)
}

func (s *ServicesSuite) TestReminders() {
	a := s.signup("A", "a@x.com")
	s.notifier.Wait()
	s.newTrip(a.ID, "Goa Trip", 10000) // starts 2025-01-01
	_, err := s.trips.CreateTripWithBudget(s.ctx, a.ID, core.NewTrip{
		Title:       "Later",
		StartDate:   core.NewDate(2025, 2, 1),
		EndDate:     core.NewDate(2025, 2, 3),
		TotalBudget: core.Money{Cents: 100},
	})
	s.Require().NoError(err)

	sent, err := s.reminders.SendUpcoming(s.ctx, 3)
	s.Require().NoError(err)
	s.Equal(1, sent)

	mails := s.async.Sent()
	s.Require().Len(mails, 2)
	s.Equal(notify.SubjectReminder, mails[1].Subject)
	s.Contains(mails[1].HTML, "Goa Trip")

	_, err = s.reminders.SendUpcoming(s.ctx, -1)
	s.requireKind(err, core.KindValidation, "")
}

func (s *ServicesSuite) TestRemindersCollectFailures() {
	a := s.signup("A", "a@x.com")
	s.notifier.Wait()
	s.newTrip(a.ID, "Goa Trip", 10000)
	s.async.Err = errors.New("smtp down")

	sent, err := s.reminders.SendUpcoming(s.ctx, 0)
	s.Error(err)
	s.Zero(sent)
}
