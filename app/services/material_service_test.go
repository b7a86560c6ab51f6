package services_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AkaOko/react-trpo/app/models"
	"github.com/AkaOko/react-trpo/app/services"
	"github.com/AkaOko/react-trpo/pkg/testkit"
)

func TestMaterials(t *testing.T) {
	db := testkit.DB(t)
	fx := fixtures{t: t, db: db}
	svc := services.NewMaterialService(db)
	supplier := fx.user(models.RoleSupplier)
	client := fx.user(models.RoleClient)

	_, err := svc.Create(bg, actorOf(client), services.MaterialInput{Name: "gold"})
	assert.ErrorIs(t, err, services.ErrForbidden)

	gold, err := svc.Create(bg, actorOf(supplier), services.MaterialInput{Name: " gold ", PricePerGram: ptr(dec("61.20")), Quantity: 5, SupplierID: &supplier.ID})
	require.NoError(t, err)
	assert.Equal(t, "gold", gold.Name)

	_, err = svc.Create(bg, actorOf(supplier), services.MaterialInput{Name: "gold"})
	assert.ErrorIs(t, err, services.ErrMaterialExists)

	_, err = svc.Create(bg, actorOf(supplier), services.MaterialInput{Name: "silver", SupplierID: &client.ID})
	assert.ErrorIs(t, err, services.ErrInvalidInput, "supplier must be a SUPPLIER")

	_, err = svc.Create(bg, actorOf(supplier), services.MaterialInput{Name: "tin", Quantity: -1})
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	updated, err := svc.Update(bg, actorOf(supplier), gold.ID, services.MaterialPatch{Quantity: ptr(12)})
	require.NoError(t, err)
	assert.Equal(t, 12, updated.Quantity)
	assert.Equal(t, "gold", updated.Name, "renaming to itself is not a collision")

	_, err = svc.Update(bg, actorOf(supplier), uuid.New(), services.MaterialPatch{Quantity: ptr(1)})
	assert.ErrorIs(t, err, services.ErrMaterialNotFound)

	list, err := svc.List(bg)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestMaterialRequests(t *testing.T) {
	db := testkit.DB(t)
	fx := fixtures{t: t, db: db}
	svc := services.NewMaterialRequestService(db)
	worker := fx.user(models.RoleWorker)
	otherWorker := fx.user(models.RoleWorker)
	supplier := fx.user(models.RoleSupplier)
	client := fx.user(models.RoleClient)
	gold := fx.material("gold")

	_, err := svc.Create(bg, actorOf(client), services.MaterialRequestInput{MaterialID: gold.ID, Quantity: 1})
	assert.ErrorIs(t, err, services.ErrForbidden)
	_, err = svc.Create(bg, actorOf(worker), services.MaterialRequestInput{MaterialID: gold.ID, Quantity: 0})
	assert.ErrorIs(t, err, services.ErrInvalidInput)
	_, err = svc.Create(bg, actorOf(worker), services.MaterialRequestInput{MaterialID: uuid.New(), Quantity: 1})
	assert.ErrorIs(t, err, services.ErrMaterialNotFound)

	req, err := svc.Create(bg, actorOf(worker), services.MaterialRequestInput{MaterialID: gold.ID, Quantity: 3})
	require.NoError(t, err)
	assert.Equal(t, models.RequestPending, req.Status)
	assert.Equal(t, worker.ID, req.UserID)

	_, err = svc.Update(bg, actorOf(otherWorker), req.ID, services.MaterialRequestPatch{Quantity: ptr(4)})
	assert.ErrorIs(t, err, services.ErrForbidden, "only the requester or a decider")

	got, err := svc.Update(bg, actorOf(worker), req.ID, services.MaterialRequestPatch{Quantity: ptr(5)})
	require.NoError(t, err)
	assert.Equal(t, 5, got.Quantity)

	_, err = svc.Update(bg, actorOf(worker), req.ID, services.MaterialRequestPatch{Status: ptr("APPROVED")})
	assert.ErrorIs(t, err, services.ErrForbidden, "requesters cannot approve")

	got, err = svc.Update(bg, actorOf(supplier), req.ID, services.MaterialRequestPatch{Status: ptr("approved")})
	require.NoError(t, err)
	assert.Equal(t, models.RequestApproved, got.Status)
	require.NotNil(t, got.ApprovedByID)
	assert.Equal(t, supplier.ID, *got.ApprovedByID)

	_, err = svc.Update(bg, actorOf(worker), req.ID, services.MaterialRequestPatch{Quantity: ptr(9)})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)
	_, err = svc.Update(bg, actorOf(supplier), req.ID, services.MaterialRequestPatch{Status: ptr("REJECTED")})
	assert.ErrorIs(t, err, services.ErrInvalidTransition)

	got, err = svc.Update(bg, actorOf(worker), req.ID, services.MaterialRequestPatch{Status: ptr("COMPLETED")})
	require.NoError(t, err)
	assert.Equal(t, models.RequestCompleted, got.Status)

	list, err := svc.List(bg, actorOf(supplier))
	require.NoError(t, err)
	assert.Len(t, list, 1)
	_, err = svc.List(bg, actorOf(client))
	assert.ErrorIs(t, err, services.ErrForbidden)
}
