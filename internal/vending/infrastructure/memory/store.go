package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/OmarShamkh/vending-machine-api/internal/vending/domain"
)

// Store keeps users, products and transactions in process memory. A single
// lock guards all three maps, so a purchase commit is atomic with respect to
// every other operation on the store.
type Store struct {
	mu sync.RWMutex

	users        map[int64]domain.User
	usernames    map[string]int64
	products     map[int64]domain.Product
	transactions []domain.Transaction

	lastUserID        int64
	lastProductID     int64
	lastTransactionID int64

	now func() time.Time
}

func New() *Store {
	return &Store{
		users:     make(map[int64]domain.User),
		usernames: make(map[string]int64),
		products:  make(map[int64]domain.Product),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

//region users

func (s *Store) CreateUser(_ context.Context, newUser domain.NewUser) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.usernames[newUser.Username]; ok {
		return domain.User{}, &domain.UserExistsError{Msg: fmt.Sprintf("username %s is taken", newUser.Username)}
	}

	s.lastUserID++
	now := s.now()
	user := domain.User{
		ID:           s.lastUserID,
		Username:     newUser.Username,
		PasswordHash: newUser.PasswordHash,
		Role:         newUser.Role,
		Version:      domain.InitialVersion,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	s.users[user.ID] = user
	s.usernames[user.Username] = user.ID

	return user, nil
}

func (s *Store) GetUser(_ context.Context, userID int64) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, userNotFound(userID)
	}

	return user, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.usernames[username]
	if !ok {
		return domain.User{}, &domain.UserNotFoundError{Msg: fmt.Sprintf("user %s not found", username)}
	}

	return s.users[id], nil
}

func (s *Store) SetBalance(_ context.Context, userID int64, balance int64, expected domain.Version) (domain.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, err := s.userAt(userID, expected)
	if err != nil {
		return 0, err
	}

	user.Balance = balance
	user.Version = user.Version.Next()
	user.UpdatedAt = s.now()
	s.users[userID] = user

	return user.Version, nil
}

func (s *Store) userAt(userID int64, expected domain.Version) (domain.User, error) {
	user, ok := s.users[userID]
	if !ok {
		return domain.User{}, userNotFound(userID)
	}

	if user.Version != expected {
		return domain.User{}, &domain.VersionConflictError{
			Msg: fmt.Sprintf("user %d is at version %d, expected %d", userID, user.Version, expected),
		}
	}

	return user, nil
}

//endregion

//region products

func (s *Store) ListProducts(_ context.Context) ([]domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	products := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		products = append(products, p)
	}

	sort.Slice(products, func(i, j int) bool {
		return products[i].ID < products[j].ID
	})

	return products, nil
}

func (s *Store) GetProduct(_ context.Context, productID int64) (domain.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, productNotFound(productID)
	}

	return product, nil
}

func (s *Store) CreateProduct(_ context.Context, draft domain.ProductDraft) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[draft.OwnerID]; !ok {
		return domain.Product{}, userNotFound(draft.OwnerID)
	}

	s.lastProductID++
	now := s.now()
	product := domain.Product{
		ID:        s.lastProductID,
		Name:      draft.Name,
		Stock:     draft.Stock,
		UnitCost:  draft.UnitCost,
		OwnerID:   draft.OwnerID,
		Version:   domain.InitialVersion,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.products[product.ID] = product

	return product, nil
}

func (s *Store) UpdateProduct(_ context.Context, product domain.Product, expected domain.Version) (domain.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, err := s.productAt(product.ID, expected)
	if err != nil {
		return domain.Product{}, err
	}

	stored.Name = product.Name
	stored.Stock = product.Stock
	stored.UnitCost = product.UnitCost
	stored.Version = stored.Version.Next()
	stored.UpdatedAt = s.now()
	s.products[stored.ID] = stored

	return stored, nil
}

func (s *Store) DeleteProduct(_ context.Context, productID int64, expected domain.Version) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.productAt(productID, expected); err != nil {
		return err
	}

	for _, tx := range s.transactions {
		if tx.ProductID == productID {
			return &domain.ProductInUseError{Msg: fmt.Sprintf("product %d has recorded purchases", productID)}
		}
	}

	delete(s.products, productID)

	return nil
}

func (s *Store) SetStock(_ context.Context, productID int64, stock int, expected domain.Version) (domain.Version, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	product, err := s.productAt(productID, expected)
	if err != nil {
		return 0, err
	}

	product.Stock = stock
	product.Version = product.Version.Next()
	product.UpdatedAt = s.now()
	s.products[productID] = product

	return product.Version, nil
}

func (s *Store) productAt(productID int64, expected domain.Version) (domain.Product, error) {
	product, ok := s.products[productID]
	if !ok {
		return domain.Product{}, productNotFound(productID)
	}

	if product.Version != expected {
		return domain.Product{}, &domain.VersionConflictError{
			Msg: fmt.Sprintf("product %d is at version %d, expected %d", productID, product.Version, expected),
		}
	}

	return product, nil
}

//endregion

//region purchases

func (s *Store) CommitPurchase(_ context.Context, commit domain.PurchaseCommit) (domain.PurchaseReceipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	buyer, err := s.userAt(commit.BuyerID, commit.BuyerVersion)
	if err != nil {
		return domain.PurchaseReceipt{}, err
	}

	product, err := s.productAt(commit.ProductID, commit.ProductVersion)
	if err != nil {
		return domain.PurchaseReceipt{}, err
	}

	now := s.now()

	buyer.Balance = 0
	buyer.Version = buyer.Version.Next()
	buyer.UpdatedAt = now

	product.Stock = commit.NewStock
	product.Version = product.Version.Next()
	product.UpdatedAt = now

	s.lastTransactionID++
	tx := domain.Transaction{
		ID:          s.lastTransactionID,
		BuyerID:     commit.BuyerID,
		ProductID:   commit.ProductID,
		Quantity:    commit.Quantity,
		TotalSpent:  commit.TotalSpent,
		ChangeGiven: commit.ChangeGiven,
		CreatedAt:   commit.CreatedAt,
	}

	s.users[buyer.ID] = buyer
	s.products[product.ID] = product
	s.transactions = append(s.transactions, tx)

	return domain.PurchaseReceipt{
		Transaction:    tx,
		BuyerVersion:   buyer.Version,
		ProductVersion: product.Version,
	}, nil
}

//endregion

func userNotFound(userID int64) error {
	return &domain.UserNotFoundError{Msg: fmt.Sprintf("user %d not found", userID)}
}

func productNotFound(productID int64) error {
	return &domain.ProductNotFoundError{Msg: fmt.Sprintf("product %d not found", productID)}
}
