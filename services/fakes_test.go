package services

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/HSouheill/academy_backend/models"
	"github.com/HSouheill/academy_backend/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory stores with the same conditional-update semantics as the Mongo
// repositories.

type fakeUsers struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]*models.User
	// beforeOpen runs inside OpenWithdrawal before the balance check
	beforeOpen func(u *models.User)
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{users: map[primitive.ObjectID]*models.User{}}
}

func cloneUser(u *models.User) *models.User {
	c := *u
	c.ReferralHistory = append([]models.ReferralEntry{}, u.ReferralHistory...)
	c.WithdrawalRequests = append([]models.WithdrawalRequest{}, u.WithdrawalRequests...)
	c.PurchasedCourses = append([]primitive.ObjectID{}, u.PurchasedCourses...)
	c.PurchasedBooks = append([]primitive.ObjectID{}, u.PurchasedBooks...)
	return &c
}

func (f *fakeUsers) add(u *models.User) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	f.users[u.ID] = cloneUser(u)
	return u
}

func (f *fakeUsers) get(id primitive.ObjectID) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	return cloneUser(f.users[id])
}

func (f *fakeUsers) Create(ctx context.Context, user *models.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email || (user.ReferralCode != "" && u.ReferralCode == user.ReferralCode) {
			return repositories.ErrDuplicate
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	f.users[user.ID] = cloneUser(user)
	return nil
}

func (f *fakeUsers) find(match func(*models.User) bool) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if match(u) {
			return cloneUser(u), nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeUsers) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ID == id })
}

func (f *fakeUsers) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.Email == email })
}

func (f *fakeUsers) FindByReferralCode(ctx context.Context, code string) (*models.User, error) {
	return f.find(func(u *models.User) bool { return u.ReferralCode != "" && u.ReferralCode == code })
}

func (f *fakeUsers) update(id primitive.ObjectID, fn func(u *models.User)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return repositories.ErrNotFound
	}
	fn(u)
	return nil
}

func (f *fakeUsers) UpdateProfile(ctx context.Context, id primitive.ObjectID, req models.UpdateProfileRequest) error {
	return f.update(id, func(u *models.User) {
		if req.FullName != "" {
			u.FullName = req.FullName
		}
		if req.Phone != "" {
			u.Phone = req.Phone
		}
	})
}

func (f *fakeUsers) SetMomoDetails(ctx context.Context, id primitive.ObjectID, momo *models.MomoDetails) error {
	return f.update(id, func(u *models.User) { m := *momo; u.MomoDetails = &m })
}

func (f *fakeUsers) SetFCMToken(ctx context.Context, id primitive.ObjectID, token string) error {
	return f.update(id, func(u *models.User) { u.FCMToken = token })
}

func (f *fakeUsers) SetPassword(ctx context.Context, id primitive.ObjectID, hash string) error {
	return f.update(id, func(u *models.User) { u.Password = hash })
}

func (f *fakeUsers) TouchLogin(ctx context.Context, id primitive.ObjectID, at time.Time) error {
	return f.update(id, func(u *models.User) { u.LastLoginAt = &at })
}

func (f *fakeUsers) CreditReferral(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[referrerID]
	if !ok {
		return false, nil
	}
	for _, h := range u.ReferralHistory {
		if h.Reference == entry.Reference {
			return false, nil
		}
	}
	u.ReferralEarnings += entry.Amount
	u.ReferralHistory = append(u.ReferralHistory, entry)
	return true, nil
}

func (f *fakeUsers) OpenWithdrawal(ctx context.Context, userID primitive.ObjectID, observedBalance float64, req models.WithdrawalRequest) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	if f.beforeOpen != nil {
		f.beforeOpen(u)
	}
	if u.ReferralEarnings != observedBalance || u.PendingWithdrawal() != nil {
		return false, nil
	}
	u.ReferralEarnings = 0
	u.WithdrawalRequests = append(u.WithdrawalRequests, req)
	return true, nil
}

func (f *fakeUsers) CloseWithdrawal(ctx context.Context, userID primitive.ObjectID, w models.WithdrawalRequest, restore bool) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[userID]
	if !ok {
		return false, nil
	}
	for i := range u.WithdrawalRequests {
		cur := &u.WithdrawalRequests[i]
		if cur.ID != w.ID || cur.Status != models.WithdrawalPending || cur.Amount != w.Amount {
			continue
		}
		cur.Status = w.Status
		cur.ProcessedAt = w.ProcessedAt
		cur.ProcessedBy = w.ProcessedBy
		cur.Note = w.Note
		if restore {
			u.ReferralEarnings += w.Amount
		}
		return true, nil
	}
	return false, nil
}

func (f *fakeUsers) ListWithdrawals(ctx context.Context, status string) ([]models.UserWithdrawal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.UserWithdrawal{}
	for _, u := range f.users {
		for _, w := range u.WithdrawalRequests {
			if status == "" || w.Status == status {
				out = append(out, models.UserWithdrawal{UserID: u.ID, FullName: u.FullName, Email: u.Email, Withdrawal: w})
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Withdrawal.RequestedAt.After(out[j].Withdrawal.RequestedAt)
	})
	return out, nil
}

func addID(ids []primitive.ObjectID, id primitive.ObjectID) ([]primitive.ObjectID, bool) {
	for _, v := range ids {
		if v == id {
			return ids, false
		}
	}
	return append(ids, id), true
}

func (f *fakeUsers) AddPurchasedCourse(ctx context.Context, userID, courseID primitive.ObjectID) (bool, error) {
	var added bool
	err := f.update(userID, func(u *models.User) { u.PurchasedCourses, added = addID(u.PurchasedCourses, courseID) })
	return added, err
}

func (f *fakeUsers) AddPurchasedBook(ctx context.Context, userID, bookID primitive.ObjectID) (bool, error) {
	var added bool
	err := f.update(userID, func(u *models.User) { u.PurchasedBooks, added = addID(u.PurchasedBooks, bookID) })
	return added, err
}

func (f *fakeUsers) AddPurchasedBooks(ctx context.Context, userID primitive.ObjectID, bookIDs []primitive.ObjectID) error {
	return f.update(userID, func(u *models.User) {
		for _, id := range bookIDs {
			u.PurchasedBooks, _ = addID(u.PurchasedBooks, id)
		}
	})
}

func (f *fakeUsers) List(ctx context.Context, limit, skip int64) ([]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.User{}
	for _, u := range f.users {
		out = append(out, *cloneUser(u))
	}
	return out, nil
}

type fakeAdmins struct {
	mu     sync.Mutex
	admins []*models.Admin
}

func (f *fakeAdmins) Create(ctx context.Context, admin *models.Admin) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == admin.Email {
			return repositories.ErrDuplicate
		}
	}
	admin.ID = primitive.NewObjectID()
	c := *admin
	f.admins = append(f.admins, &c)
	return nil
}

func (f *fakeAdmins) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.admins {
		if a.Email == email {
			c := *a
			return &c, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (f *fakeAdmins) Count(ctx context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return int64(len(f.admins)), nil
}

func (f *fakeAdmins) List(ctx context.Context) ([]models.Admin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Admin{}
	for _, a := range f.admins {
		out = append(out, *a)
	}
	return out, nil
}

type fakeCourses struct {
	mu      sync.Mutex
	courses map[primitive.ObjectID]*models.Course
}

func newFakeCourses() *fakeCourses {
	return &fakeCourses{courses: map[primitive.ObjectID]*models.Course{}}
}

func (f *fakeCourses) add(c *models.Course) *models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.courses[c.ID] = &cp
	return c
}

func (f *fakeCourses) get(id primitive.ObjectID) models.Course {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.courses[id]
}

func (f *fakeCourses) Create(ctx context.Context, course *models.Course) error {
	f.add(course)
	return nil
}

func (f *fakeCourses) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCourses) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Course, error) {
	out := []models.Course{}
	for _, id := range ids {
		if c, err := f.FindByID(ctx, id); err == nil {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeCourses) List(ctx context.Context, filter repositories.CourseFilter) ([]models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Course{}
	for _, c := range f.courses {
		if filter.PublishedOnly && !c.IsPublished {
			continue
		}
		if filter.Category != "" && c.Category != filter.Category {
			continue
		}
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCourses) Update(ctx context.Context, course *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[course.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *course
	f.courses[course.ID] = &cp
	return nil
}

func (f *fakeCourses) SetPublished(ctx context.Context, id primitive.ObjectID, published bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return repositories.ErrNotFound
	}
	c.IsPublished = published
	return nil
}

func (f *fakeCourses) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourses) IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.courses[id]; ok {
		c.PurchaseCount++
	}
	return nil
}

type fakeBooks struct {
	mu    sync.Mutex
	books map[primitive.ObjectID]*models.Book
}

func newFakeBooks() *fakeBooks {
	return &fakeBooks{books: map[primitive.ObjectID]*models.Book{}}
}

func (f *fakeBooks) add(b *models.Book) *models.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b.ID.IsZero() {
		b.ID = primitive.NewObjectID()
	}
	cp := *b
	f.books[b.ID] = &cp
	return b
}

func (f *fakeBooks) get(id primitive.ObjectID) models.Book {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.books[id]
}

func (f *fakeBooks) Create(ctx context.Context, book *models.Book) error {
	f.add(book)
	return nil
}

func (f *fakeBooks) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, ok := f.books[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBooks) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Book, error) {
	out := []models.Book{}
	for _, id := range ids {
		if b, err := f.FindByID(ctx, id); err == nil {
			out = append(out, *b)
		}
	}
	return out, nil
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (f *fakeBooks) List(ctx context.Context, publishedOnly bool, tag string) ([]models.Book, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Book{}
	for _, b := range f.books {
		if publishedOnly && !b.IsPublished {
			continue
		}
		if tag != "" && !hasTag(b.Tags, tag) {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBooks) IDsByTag(ctx context.Context, tag string) ([]primitive.ObjectID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ids := []primitive.ObjectID{}
	for _, b := range f.books {
		if hasTag(b.Tags, tag) {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (f *fakeBooks) Update(ctx context.Context, book *models.Book) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[book.ID]; !ok {
		return repositories.ErrNotFound
	}
	cp := *book
	f.books[book.ID] = &cp
	return nil
}

func (f *fakeBooks) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.books[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(f.books, id)
	return nil
}

func (f *fakeBooks) IncrementPurchaseCount(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if b, ok := f.books[id]; ok {
		b.PurchaseCount++
	}
	return nil
}

type fakePayments struct {
	mu       sync.Mutex
	payments map[string]*models.Payment
}

func newFakePayments() *fakePayments {
	return &fakePayments{payments: map[string]*models.Payment{}}
}

func (f *fakePayments) get(ref string) models.Payment {
	f.mu.Lock()
	defer f.mu.Unlock()
	return *f.payments[ref]
}

func (f *fakePayments) Create(ctx context.Context, p *models.Payment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.payments[p.Reference]; ok {
		return repositories.ErrDuplicate
	}
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	cp := *p
	f.payments[p.Reference] = &cp
	return nil
}

func (f *fakePayments) FindByReference(ctx context.Context, reference string) (*models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[reference]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakePayments) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) List(ctx context.Context, status string) ([]models.Payment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Payment{}
	for _, p := range f.payments {
		if status == "" || p.Status == status {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePayments) SetAuthorization(ctx context.Context, reference, url string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[reference]; ok {
		p.AuthorizationURL = url
	}
	return nil
}

func (f *fakePayments) MarkFailed(ctx context.Context, reference, providerStatus, reason string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[reference]
	if !ok || p.Status != models.PaymentPending {
		return false, nil
	}
	p.Status = models.PaymentFailed
	p.ProviderStatus = providerStatus
	p.FailureReason = reason
	return true, nil
}

func (f *fakePayments) Complete(ctx context.Context, reference, providerStatus, channel string, at time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.payments[reference]
	if !ok || (p.Status != models.PaymentPending && p.Status != models.PaymentFailed) {
		return false, nil
	}
	p.Status = models.PaymentCompleted
	p.ProviderStatus = providerStatus
	p.FailureReason = ""
	p.Channel = channel
	p.VerifiedAt = &at
	return true, nil
}

func (f *fakePayments) MarkSettled(ctx context.Context, reference string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if p, ok := f.payments[reference]; ok && p.Status == models.PaymentCompleted {
		p.Settled = true
		p.SettledAt = &at
	}
	return nil
}

type fakePurchases struct {
	mu        sync.Mutex
	purchases []models.Purchase
}

func (f *fakePurchases) exists(userID, courseID primitive.ObjectID) bool {
	for _, p := range f.purchases {
		if p.UserID == userID && p.CourseID == courseID {
			return true
		}
	}
	return false
}

func (f *fakePurchases) Create(ctx context.Context, p *models.Purchase) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists(p.UserID, p.CourseID) {
		return repositories.ErrDuplicate
	}
	f.purchases = append(f.purchases, *p)
	return nil
}

func (f *fakePurchases) Upsert(ctx context.Context, p *models.Purchase) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.exists(p.UserID, p.CourseID) {
		return false, nil
	}
	f.purchases = append(f.purchases, *p)
	return true, nil
}

func (f *fakePurchases) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]models.Purchase, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Purchase{}
	for _, p := range f.purchases {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePurchases) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.purchases)
}

type fakeAffiliates struct {
	mu         sync.Mutex
	affiliates map[primitive.ObjectID]*models.Affiliate // by user id
}

func newFakeAffiliates() *fakeAffiliates {
	return &fakeAffiliates{affiliates: map[primitive.ObjectID]*models.Affiliate{}}
}

func (f *fakeAffiliates) Create(ctx context.Context, a *models.Affiliate) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.affiliates[a.UserID]; ok {
		return repositories.ErrDuplicate
	}
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	cp := *a
	f.affiliates[a.UserID] = &cp
	return nil
}

func (f *fakeAffiliates) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.Affiliate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.affiliates[userID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (f *fakeAffiliates) List(ctx context.Context, status string) ([]models.Affiliate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Affiliate{}
	for _, a := range f.affiliates {
		if status == "" || a.Status == status {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAffiliates) byID(id primitive.ObjectID) *models.Affiliate {
	for _, a := range f.affiliates {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (f *fakeAffiliates) SetStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a := f.byID(id)
	if a == nil {
		return repositories.ErrNotFound
	}
	a.Status = status
	return nil
}

func (f *fakeAffiliates) SetTier(ctx context.Context, id primitive.ObjectID, tier string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a := f.byID(id); a != nil {
		a.Tier = tier
	}
	return nil
}

func (f *fakeAffiliates) Credit(ctx context.Context, userID primitive.ObjectID, ref models.AffiliateReferral) (*models.Affiliate, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.affiliates[userID]
	if !ok {
		return nil, nil
	}
	for _, r := range a.Referrals {
		if r.Reference == ref.Reference {
			return nil, nil
		}
	}
	a.TotalEarnings += ref.Commission
	a.Referrals = append(a.Referrals, ref)
	cp := *a
	return &cp, nil
}

type fakeCoupons struct {
	mu      sync.Mutex
	coupons map[string]*models.Coupon
}

func newFakeCoupons() *fakeCoupons {
	return &fakeCoupons{coupons: map[string]*models.Coupon{}}
}

func (f *fakeCoupons) Create(ctx context.Context, c *models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.coupons[c.Code]; ok {
		return repositories.ErrDuplicate
	}
	if c.ID.IsZero() {
		c.ID = primitive.NewObjectID()
	}
	cp := *c
	f.coupons[c.Code] = &cp
	return nil
}

func (f *fakeCoupons) FindByCode(ctx context.Context, code string) (*models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coupons[code]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (f *fakeCoupons) List(ctx context.Context) ([]models.Coupon, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []models.Coupon{}
	for _, c := range f.coupons {
		out = append(out, *c)
	}
	return out, nil
}

func (f *fakeCoupons) Update(ctx context.Context, c *models.Coupon) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, existing := range f.coupons {
		if existing.ID == c.ID {
			delete(f.coupons, code)
			cp := *c
			f.coupons[c.Code] = &cp
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCoupons) Delete(ctx context.Context, id primitive.ObjectID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for code, c := range f.coupons {
		if c.ID == id {
			delete(f.coupons, code)
			return nil
		}
	}
	return repositories.ErrNotFound
}

func (f *fakeCoupons) Redeem(ctx context.Context, code, reference string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.coupons[code]
	if !ok {
		return false, nil
	}
	for _, r := range c.Redemptions {
		if r == reference {
			return false, nil
		}
	}
	if c.MaxUses > 0 && c.UsedCount >= c.MaxUses {
		return false, nil
	}
	c.UsedCount++
	c.Redemptions = append(c.Redemptions, reference)
	return true, nil
}

// fakeProvider answers verification from a per-reference table
type fakeProvider struct {
	mu          sync.Mutex
	results     map[string]*models.TransactionResult
	initErr     error
	verifyCalls int
	initialized []models.PaystackInitializeRequest
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{results: map[string]*models.TransactionResult{}}
}

func (f *fakeProvider) InitializeTransaction(ctx context.Context, req models.PaystackInitializeRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.initErr != nil {
		return "", f.initErr
	}
	f.initialized = append(f.initialized, req)
	return "https://checkout.test/" + req.Reference, nil
}

func (f *fakeProvider) VerifyTransaction(ctx context.Context, reference string) (*models.TransactionResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.verifyCalls++
	r, ok := f.results[reference]
	if !ok {
		return &models.TransactionResult{Reference: reference, Status: "abandoned"}, nil
	}
	cp := *r
	return &cp, nil
}

func (f *fakeProvider) succeed(reference string, minor int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[reference] = &models.TransactionResult{Reference: reference, Status: "success", Amount: minor, Channel: "mobile_money"}
}

func (f *fakeProvider) setStatus(reference, status string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[reference] = &models.TransactionResult{Reference: reference, Status: status}
}

// recordingNotifier counts notifications instead of sending them
type recordingNotifier struct {
	mu                  sync.Mutex
	withdrawalRequested int
	withdrawalProcessed []models.WithdrawalRequest
	paymentsSettled     []string
	referralsCredited   []models.ReferralEntry
}

func (n *recordingNotifier) WithdrawalRequested(ctx context.Context, user *models.User, w models.WithdrawalRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawalRequested++
}

func (n *recordingNotifier) WithdrawalProcessed(ctx context.Context, user *models.User, w models.WithdrawalRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.withdrawalProcessed = append(n.withdrawalProcessed, w)
}

func (n *recordingNotifier) PaymentSettled(ctx context.Context, p *models.Payment) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paymentsSettled = append(n.paymentsSettled, p.Reference)
}

func (n *recordingNotifier) ReferralCredited(ctx context.Context, referrerID primitive.ObjectID, entry models.ReferralEntry) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.referralsCredited = append(n.referralsCredited, entry)
}
