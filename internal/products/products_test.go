package products

import (
	"context"
	"os"
	"testing"

	"storefront-service/internal/stores/postgres"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

func TestProductLineItem(t *testing.T) {
	p := Product{ID: "fur-elise", Name: "Für Elise", Composer: "Ludwig van Beethoven", Price: decimal.RequireFromString("14.99")}
	li := p.LineItem(2)
	require.Equal(t, "fur-elise", li.ID)
	require.Equal(t, 2, li.Quantity)
	require.True(t, li.LineTotal().Equal(decimal.RequireFromString("29.98")))
}

type CatalogueTestSuite struct {
	suite.Suite
	ctx  context.Context
	conf *Conf
}

func TestCatalogueSuite(t *testing.T) {
	if os.Getenv("DATABASE_URL") == "" {
		t.Skip("DATABASE_URL not set")
	}
	suite.Run(t, &CatalogueTestSuite{})
}

func (s *CatalogueTestSuite) SetupSuite() {
	s.ctx = context.Background()
	db, err := postgres.OpenDB(s.ctx, os.Getenv("DATABASE_URL"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), postgres.Migrate(db))
	s.conf, err = NewConf(db)
	require.NoError(s.T(), err)
}

func (s *CatalogueTestSuite) TestListByCategory() {
	guitar, err := s.conf.ListProducts(s.ctx, "guitar")
	require.NoError(s.T(), err)
	require.Len(s.T(), guitar, 2)
	for _, p := range guitar {
		require.Equal(s.T(), "guitar", p.Category)
	}

	all, err := s.conf.ListProducts(s.ctx, "")
	require.NoError(s.T(), err)
	require.GreaterOrEqual(s.T(), len(all), 7)
}

func (s *CatalogueTestSuite) TestGetProduct() {
	p, err := s.conf.GetProduct(s.ctx, "fur-elise")
	require.NoError(s.T(), err)
	require.True(s.T(), p.Price.Equal(decimal.RequireFromString("14.99")))

	_, err = s.conf.GetProduct(s.ctx, "no-such-piece")
	require.ErrorIs(s.T(), err, ErrProductNotFound)
}
