package resources_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/resources"
)

func TestOrderOf_ExposesOnlyPublicOwnerFields(t *testing.T) {
	owner := models.User{Base: models.Base{ID: uuid.New()}, Name: "Анна", Email: "anna@example.com", Phone: "+7", Password: "hash", Role: models.RoleClient}
	productID := uuid.New()
	order := models.Order{
		Base:   models.Base{ID: uuid.New()},
		UserID: owner.ID,
		User:   &owner,
		Status: models.StatusNew,
		Total:  decimal.NewFromInt(2000),
		Items:  []models.OrderItem{{ProductID: productID, Quantity: 2}},
	}

	raw, err := json.Marshal(resources.OrderOf(order))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "NEW", got["status"])
	assert.Equal(t, "2000", got["total"])

	user := got["user"].(map[string]any)
	assert.ElementsMatch(t, []string{"id", "name", "email", "phone"}, keys(user))

	products := got["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, productID.String(), products[0].(map[string]any)["productId"])
}

func TestOrderOf_NoItemsIsEmptyArray(t *testing.T) {
	raw, err := json.Marshal(resources.OrderOf(models.Order{}))
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"products":[]`)
	assert.NotContains(t, string(raw), `"user"`)
}

func keys(m map[string]any) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
