package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"threadmarket/internal/domain/entity"
	"threadmarket/internal/domain/repository"
	"threadmarket/pkg/errors"
)

// In-memory repositories for tests. They model the same write-time contracts
// as the Firestore implementations: tuple-unique review inserts, exactly-two
// chat participants, idempotent wishlist membership.

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*entity.User
}

func newFakeUserRepo(users ...*entity.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*entity.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, errors.NotFound("User", nil)
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			copied := *user
			return &copied, nil
		}
	}
	return nil, errors.NotFound("User", nil)
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[user.ID]; !ok {
		return errors.NotFound("User", nil)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) UpdateRatings(ctx context.Context, userID string, ratings entity.UserRatings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return errors.NotFound("User", nil)
	}
	user.Ratings = ratings
	return nil
}

type fakeReviewRepo struct {
	mu      sync.Mutex
	reviews map[string]*entity.Review
}

func newFakeReviewRepo() *fakeReviewRepo {
	return &fakeReviewRepo{reviews: make(map[string]*entity.Review)}
}

func (r *fakeReviewRepo) Create(ctx context.Context, review *entity.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := fmt.Sprintf("%s_%s_%s_%s", review.ReviewerID, review.ReviewedID, review.ProductID, review.Type)
	if _, exists := r.reviews[id]; exists {
		return errors.Conflict("You have already reviewed this transaction", nil)
	}

	review.ID = id
	review.CreatedAt = time.Now()
	copied := *review
	r.reviews[id] = &copied
	return nil
}

func (r *fakeReviewRepo) GetByID(ctx context.Context, id string) (*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	review, ok := r.reviews[id]
	if !ok {
		return nil, errors.NotFound("Review", nil)
	}
	copied := *review
	return &copied, nil
}

func (r *fakeReviewRepo) ListByReviewedUser(ctx context.Context, userID, reviewType string, sortAsc bool) ([]*entity.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var reviews []*entity.Review
	for _, review := range r.reviews {
		if review.ReviewedID != userID {
			continue
		}
		if reviewType != "" && review.Type != reviewType {
			continue
		}
		copied := *review
		reviews = append(reviews, &copied)
	}

	sort.Slice(reviews, func(i, j int) bool {
		if sortAsc {
			return reviews[i].CreatedAt.Before(reviews[j].CreatedAt)
		}
		return reviews[i].CreatedAt.After(reviews[j].CreatedAt)
	})

	return reviews, nil
}

type fakeProductRepo struct {
	mu       sync.Mutex
	products map[string]*entity.Product
	nextID   int
}

func newFakeProductRepo(products ...*entity.Product) *fakeProductRepo {
	r := &fakeProductRepo{products: make(map[string]*entity.Product)}
	for _, p := range products {
		r.products[p.ID] = p
	}
	return r
}

func (r *fakeProductRepo) Create(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if product.ID == "" {
		r.nextID++
		product.ID = fmt.Sprintf("product-%d", r.nextID)
	}
	now := time.Now()
	product.CreatedAt = now
	product.UpdatedAt = now
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) GetByID(ctx context.Context, id string) (*entity.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	product, ok := r.products[id]
	if !ok {
		return nil, errors.NotFound("Product", nil)
	}
	copied := *product
	return &copied, nil
}

func (r *fakeProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var products []*entity.Product
	for _, p := range r.products {
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Size != "" && p.Size != filter.Size {
			continue
		}
		if filter.Condition != "" && p.Condition != filter.Condition {
			continue
		}
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.SellerID != "" && p.SellerID != filter.SellerID {
			continue
		}
		if filter.MinPrice > 0 && p.Price < filter.MinPrice {
			continue
		}
		if filter.MaxPrice > 0 && p.Price > filter.MaxPrice {
			continue
		}
		copied := *p
		products = append(products, &copied)
	}

	return products, int64(len(products)), nil
}

func (r *fakeProductRepo) Update(ctx context.Context, product *entity.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[product.ID]; !ok {
		return errors.NotFound("Product", nil)
	}
	product.UpdatedAt = time.Now()
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *fakeProductRepo) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.products, id)
	return nil
}

func (r *fakeProductRepo) SearchByTitle(ctx context.Context, query string, limit, offset int) ([]*entity.Product, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	query = strings.ToLower(query)
	var products []*entity.Product
	for _, p := range r.products {
		if strings.Contains(strings.ToLower(p.Title), query) {
			copied := *p
			products = append(products, &copied)
		}
	}
	return products, int64(len(products)), nil
}

type fakeWishlistRepo struct {
	mu          sync.Mutex
	items       map[string]entity.WishlistItem
	productRepo *fakeProductRepo
}

func newFakeWishlistRepo(productRepo *fakeProductRepo) *fakeWishlistRepo {
	return &fakeWishlistRepo{
		items:       make(map[string]entity.WishlistItem),
		productRepo: productRepo,
	}
}

func (r *fakeWishlistRepo) AddToWishlist(ctx context.Context, userID, productID string) (*entity.WishlistItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := fmt.Sprintf("%s_%s", userID, productID)
	if existing, ok := r.items[id]; ok {
		return &existing, nil
	}

	item := entity.WishlistItem{
		ID:        id,
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	}
	r.items[id] = item
	return &item, nil
}

func (r *fakeWishlistRepo) RemoveFromWishlist(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.items, fmt.Sprintf("%s_%s", userID, productID))
	return nil
}

func (r *fakeWishlistRepo) IsInWishlist(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.items[fmt.Sprintf("%s_%s", userID, productID)]
	return ok, nil
}

func (r *fakeWishlistRepo) GetUserWishlist(ctx context.Context, userID string, limit, offset int) ([]entity.WishlistItemWithProduct, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var items []entity.WishlistItemWithProduct
	for _, item := range r.items {
		if item.UserID != userID {
			continue
		}
		product, err := r.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			continue
		}
		items = append(items, entity.WishlistItemWithProduct{
			ID:        item.ID,
			UserID:    item.UserID,
			ProductID: item.ProductID,
			Product:   product,
			CreatedAt: item.CreatedAt,
		})
	}
	return items, int64(len(items)), nil
}

func (r *fakeWishlistRepo) GetWishlistCount(ctx context.Context, userID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var count int64
	for _, item := range r.items {
		if item.UserID == userID {
			count++
		}
	}
	return count, nil
}

type fakeChatRepo struct {
	mu       sync.Mutex
	chats    map[string]*entity.Chat
	messages map[string][]*entity.Message
	nextID   int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		chats:    make(map[string]*entity.Chat),
		messages: make(map[string][]*entity.Message),
	}
}

func (r *fakeChatRepo) checkParticipants(chat *entity.Chat) error {
	if len(chat.Participants) != 2 {
		return errors.BadRequest("Chat must have exactly 2 participants", nil)
	}
	return nil
}

func (r *fakeChatRepo) Create(ctx context.Context, chat *entity.Chat) error {
	if err := r.checkParticipants(chat); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if chat.ID == "" {
		r.nextID++
		chat.ID = fmt.Sprintf("chat-%d", r.nextID)
	}
	now := time.Now()
	chat.CreatedAt = now
	chat.UpdatedAt = now
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) GetByID(ctx context.Context, id string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	chat, ok := r.chats[id]
	if !ok {
		return nil, errors.NotFound("Chat", nil)
	}
	copied := *chat
	return &copied, nil
}

func (r *fakeChatRepo) GetByParticipantsAndProduct(ctx context.Context, userA, userB, productID string) (*entity.Chat, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, chat := range r.chats {
		if chat.ProductID == productID && chat.HasParticipant(userA) && chat.HasParticipant(userB) {
			copied := *chat
			return &copied, nil
		}
	}
	return nil, errors.NotFound("Chat", nil)
}

func (r *fakeChatRepo) ListByUserID(ctx context.Context, userID string, limit, offset int) ([]*entity.Chat, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var chats []*entity.Chat
	for _, chat := range r.chats {
		if chat.HasParticipant(userID) {
			copied := *chat
			chats = append(chats, &copied)
		}
	}

	sort.Slice(chats, func(i, j int) bool {
		return chats[i].LastMessageAt.After(chats[j].LastMessageAt)
	})

	return chats, int64(len(chats)), nil
}

func (r *fakeChatRepo) Update(ctx context.Context, chat *entity.Chat) error {
	if err := r.checkParticipants(chat); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chat.ID]; !ok {
		return errors.NotFound("Chat", nil)
	}
	chat.UpdatedAt = time.Now()
	copied := *chat
	r.chats[chat.ID] = &copied
	return nil
}

func (r *fakeChatRepo) AppendMessage(ctx context.Context, chat *entity.Chat, message *entity.Message) error {
	if err := r.checkParticipants(chat); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.chats[chat.ID]; !ok {
		return errors.NotFound("Chat", nil)
	}

	r.nextID++
	message.ID = fmt.Sprintf("message-%d", r.nextID)
	message.CreatedAt = time.Now()

	chat.LastMessage = message.Content
	chat.LastMessageAt = message.CreatedAt
	chat.UpdatedAt = message.CreatedAt

	copiedMessage := *message
	r.messages[chat.ID] = append(r.messages[chat.ID], &copiedMessage)
	copiedChat := *chat
	r.chats[chat.ID] = &copiedChat
	return nil
}

func (r *fakeChatRepo) GetMessagesByChat(ctx context.Context, chatID string, limit, offset int) ([]*entity.Message, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := r.messages[chatID]
	messages := make([]*entity.Message, 0, len(stored))
	for _, m := range stored {
		copied := *m
		messages = append(messages, &copied)
	}
	return messages, int64(len(messages)), nil
}

func (r *fakeChatRepo) MarkMessagesRead(ctx context.Context, chatID, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, message := range r.messages[chatID] {
		if message.SenderID == userID {
			continue
		}
		alreadyRead := false
		for _, reader := range message.ReadBy {
			if reader == userID {
				alreadyRead = true
				break
			}
		}
		if !alreadyRead {
			message.ReadBy = append(message.ReadBy, userID)
		}
	}
	return nil
}

type fakePriceHistoryRepo struct {
	mu     sync.Mutex
	points []*entity.PricePoint
}

func newFakePriceHistoryRepo() *fakePriceHistoryRepo {
	return &fakePriceHistoryRepo{}
}

func (r *fakePriceHistoryRepo) Record(ctx context.Context, point *entity.PricePoint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if point.Timestamp.IsZero() {
		point.Timestamp = time.Now()
	}
	copied := *point
	r.points = append(r.points, &copied)
	return nil
}

func (r *fakePriceHistoryRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.PricePoint, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var points []*entity.PricePoint
	for _, p := range r.points {
		if p.ProductID == productID {
			copied := *p
			points = append(points, &copied)
		}
	}
	return points, nil
}
