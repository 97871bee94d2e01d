package repositories_test

import (
	"fmt"
	"net/url"
	"strconv"
	"testing"
	"time"

	"storefront/internal/catalog"
	"storefront/internal/models"
	"storefront/internal/repositories"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns a fresh instance of every repository implementation that
// runs without external services.
func backends(t *testing.T) map[string]*repositories.Repositories {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := repositories.OpenGORM("sqlite", dsn)
	require.NoError(t, err)
	sqlite := repositories.NewGORMRepositories(db)
	t.Cleanup(func() { _ = sqlite.Close() })

	return map[string]*repositories.Repositories{
		"memory": repositories.NewMemoryRepositories(),
		"sqlite": sqlite,
	}
}

func plan(query string) catalog.Plan {
	values, _ := url.ParseQuery(query)
	return catalog.Build(catalog.ParseFilter(values.Get))
}

func names(products []models.Product) []string {
	out := make([]string, len(products))
	for i, p := range products {
		out[i] = p.Name
	}
	return out
}

func seed(t *testing.T, repo repositories.ProductRepository) {
	t.Helper()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	products := []models.Product{
		{Name: "Wireless Headphones", Description: "Noise cancelling", Price: 2999, Discount: 20, Category: "Electronics"},
		{Name: "Cotton T-Shirt", Description: "Breathable fabric", Price: 499, Discount: 30, Category: "Clothing"},
		{Name: "Cookware Set", Description: "Stainless steel pots", Price: 4999, Discount: 15, Category: "Home & Kitchen"},
		{Name: "Web Development Guide", Description: "Covers HTML and 100% of CSS", Price: 899, Category: "Books"},
		{Name: "Camera", Description: "Mirrorless", Price: 2000, Discount: 25, Category: "Electronics"},
	}
	for i := range products {
		products[i].Images = []string{"img.jpg"}
		products[i].CreatedAt = base.Add(time.Duration(i) * time.Hour)
		require.NoError(t, repo.Create(&products[i]))
		require.NotEmpty(t, products[i].ID)
	}
}

func TestProductRepositories_FindMatchesInMemoryPlan(t *testing.T) {
	queries := []string{
		"",
		"category=Electronics",
		"category=Books,Clothing",
		"minDiscount=20,30",
		"search=WIRELESS",
		"search=100%25",
		"search=t-shirt",
		"maxPrice=1500",
		"maxPrice=1499",
		"minPrice=600&maxPrice=3000",
		"sort=price-low",
		"sort=price-high",
		"category=Electronics&minPrice=1000&sort=price-high",
	}

	for name, repos := range backends(t) {
		seed(t, repos.Products)
		all, err := repos.Products.GetAll()
		require.NoError(t, err)

		for _, q := range queries {
			t.Run(name+"/"+q, func(t *testing.T) {
				got, err := repos.Products.Find(plan(q))
				require.NoError(t, err)
				want := plan(q).Apply(all)
				assert.Equal(t, names(want), names(got))
				for _, p := range got {
					assert.InDelta(t, p.Price-p.Price*p.Discount/100, p.DiscountedPrice, 1e-9)
				}
			})
		}
	}
}

func TestProductRepositories_PriceBoundary(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			seed(t, repos.Products)

			included, err := repos.Products.Find(plan("maxPrice=1500&category=Electronics"))
			require.NoError(t, err)
			assert.Equal(t, []string{"Camera"}, names(included))

			excluded, err := repos.Products.Find(plan("maxPrice=1499&category=Electronics"))
			require.NoError(t, err)
			assert.Empty(t, excluded)
		})
	}
}

func TestProductRepositories_CRUD(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := repos.Products
			p := &models.Product{Name: "Lamp", Description: "Desk lamp", Price: 800, Category: "Home & Kitchen", Images: []string{"a.jpg", "b.jpg"}, Stock: 3}
			require.NoError(t, repo.Create(p))

			got, err := repo.GetByID(p.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"a.jpg", "b.jpg"}, got.Images)
			assert.Equal(t, 800.0, got.DiscountedPrice)

			got.Discount = 50
			require.NoError(t, repo.Update(got))
			updated, err := repo.GetByID(p.ID)
			require.NoError(t, err)
			assert.Equal(t, 400.0, updated.DiscountedPrice)

			require.NoError(t, repo.Delete(p.ID))
			_, err = repo.GetByID(p.ID)
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Delete(p.ID), repositories.ErrNotFound)
			assert.ErrorIs(t, repo.Update(&models.Product{ID: "missing", Name: "x"}), repositories.ErrNotFound)
		})
	}
}

func TestUserRepositories(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := repos.Users
			alice := &models.User{Name: "Alice", Email: "alice@example.com", Password: "hash", Role: models.RoleUser, Wishlist: []string{}}
			require.NoError(t, repo.Create(alice))
			bob := &models.User{Name: "Bob", Email: "bob@example.com", Password: "hash", Role: models.RoleUser, Wishlist: []string{}}
			require.NoError(t, repo.Create(bob))

			dup := &models.User{Name: "Alice 2", Email: "alice@example.com", Password: "hash", Role: models.RoleUser}
			assert.ErrorIs(t, repo.Create(dup), repositories.ErrDuplicate)

			byEmail, err := repo.GetByEmail("alice@example.com")
			require.NoError(t, err)
			assert.Equal(t, alice.ID, byEmail.ID)

			byEmail.Wishlist = []string{"p1", "p2"}
			byEmail.Phone = "123"
			require.NoError(t, repo.Update(byEmail))
			byID, err := repo.GetByID(alice.ID)
			require.NoError(t, err)
			assert.Equal(t, []string{"p1", "p2"}, byID.Wishlist)
			assert.Equal(t, "123", byID.Phone)

			bobCopy, err := repo.GetByID(bob.ID)
			require.NoError(t, err)
			bobCopy.Email = "alice@example.com"
			assert.ErrorIs(t, repo.Update(bobCopy), repositories.ErrDuplicate)

			_, err = repo.GetByEmail("nobody@example.com")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
			_, err = repo.GetByID("missing")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestOrderRepositories(t *testing.T) {
	base := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	newOrder := func(user string, at time.Time) *models.Order {
		return &models.Order{
			UserID: user,
			Items: []models.OrderItem{
				{ProductID: "p1", Name: "Shirt", Quantity: 2, Price: 300, Image: "shirt.jpg"},
				{ProductID: "p2", Name: "Mug", Quantity: 1, Price: 100},
			},
			ShippingAddress: models.ShippingAddress{FullName: "A", Phone: "1", Address: "x", City: "Pune", State: "MH", Pincode: "411001"},
			PaymentInfo:     models.PaymentInfo{PaymentID: "pay_1", Method: "card", Status: "completed"},
			ItemsPrice:      700,
			TotalPrice:      700,
			Status:          models.StatusPending,
			CreatedAt:       at,
		}
	}

	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			repo := repos.Orders
			older := newOrder("u1", base)
			newer := newOrder("u1", base.Add(time.Hour))
			other := newOrder("u2", base.Add(2*time.Hour))
			for _, o := range []*models.Order{older, newer, other} {
				require.NoError(t, repo.Create(o))
			}

			mine, err := repo.GetByUser("u1")
			require.NoError(t, err)
			require.Len(t, mine, 2)
			assert.Equal(t, newer.ID, mine[0].ID)
			assert.Equal(t, older.ID, mine[1].ID)
			require.Len(t, mine[0].Items, 2)
			assert.Equal(t, "Shirt", mine[0].Items[0].Name)

			all, err := repo.GetAll()
			require.NoError(t, err)
			assert.Len(t, all, 3)

			require.NoError(t, repo.UpdateStatus(older.ID, models.StatusShipped, nil))
			shipped, err := repo.GetByID(older.ID)
			require.NoError(t, err)
			assert.Equal(t, models.StatusShipped, shipped.Status)
			assert.Nil(t, shipped.DeliveredAt)

			delivered := base.Add(48 * time.Hour)
			require.NoError(t, repo.UpdateStatus(older.ID, models.StatusDelivered, &delivered))
			got, err := repo.GetByID(older.ID)
			require.NoError(t, err)
			require.NotNil(t, got.DeliveredAt)
			assert.WithinDuration(t, delivered, *got.DeliveredAt, time.Second)
			assert.Equal(t, 700.0, got.TotalPrice)
			assert.Equal(t, "Pune", got.ShippingAddress.City)

			assert.ErrorIs(t, repo.UpdateStatus("missing", models.StatusShipped, nil), repositories.ErrNotFound)
			_, err = repo.GetByID("missing")
			assert.ErrorIs(t, err, repositories.ErrNotFound)
		})
	}
}

func TestProductRepositories_BoundsEqualToListedPriceMatch(t *testing.T) {
	cases := []struct {
		price, discount float64
	}{
		{999, 33},
		{10.1, 33},
		{0.7, 10},
		{2000, 25},
	}

	for name, repos := range backends(t) {
		for _, tc := range cases {
			t.Run(fmt.Sprintf("%s/%v@%v", name, tc.price, tc.discount), func(t *testing.T) {
				p := &models.Product{
					Name: fmt.Sprintf("Item %v@%v", tc.price, tc.discount), Description: "boundary",
					Price: tc.price, Discount: tc.discount, Category: "Books", Images: []string{"a.jpg"},
				}
				require.NoError(t, repos.Products.Create(p))
				stored, err := repos.Products.GetByID(p.ID)
				require.NoError(t, err)

				bound := strconv.FormatFloat(stored.DiscountedPrice, 'f', -1, 64)
				got, err := repos.Products.Find(plan("minPrice=" + bound + "&maxPrice=" + bound))
				require.NoError(t, err)
				require.Len(t, got, 1, "bound %s", bound)
				assert.Equal(t, p.ID, got[0].ID)
				assert.Equal(t, stored.DiscountedPrice, got[0].DiscountedPrice)
			})
		}
	}
}

func TestProductRepositories_TiesSortByID(t *testing.T) {
	created := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			for _, id := range []string{"c", "a", "b"} {
				require.NoError(t, repos.Products.Create(&models.Product{
					ID: id, Name: "Tie " + id, Description: "same price", Price: 100,
					Category: "Books", Images: []string{"a.jpg"}, CreatedAt: created,
				}))
			}

			for _, q := range []string{"", "sort=price-low", "sort=price-high"} {
				got, err := repos.Products.Find(plan(q))
				require.NoError(t, err)
				assert.Equal(t, []string{"Tie a", "Tie b", "Tie c"}, names(got), q)
			}
		})
	}
}
