package notification_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feral-file/ff-asset-aggregator/internal/domain"
	"github.com/feral-file/ff-asset-aggregator/internal/logger"
	"github.com/feral-file/ff-asset-aggregator/internal/mocks"
	"github.com/feral-file/ff-asset-aggregator/internal/notification"
)

func TestMain(m *testing.M) {
	// Initialize logger for tests
	err := logger.Initialize(logger.Config{
		Debug: false,
	})
	if err != nil {
		panic(err)
	}

	code := m.Run()
	os.Exit(code)
}

func fullBucket(id string) domain.NotificationSubscription {
	addresses := make([]string, domain.BucketCapacity)
	for i := range addresses {
		addresses[i] = "0xfiller"
	}
	return domain.NotificationSubscription{
		ID:         id,
		Chain:      domain.ChainEthereum,
		NotifyType: domain.NotifyTypeAddressActivity,
		Addresses:  addresses,
	}
}

func TestAccumulator_EnsureRegistered_CreatesFirstBucket(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return(nil, nil)

	var updated domain.NotificationSubscription
	registry.EXPECT().
		UpdateNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub domain.NotificationSubscription) error {
			updated = sub
			return nil
		})

	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xAbCd")

	// A fresh bucket carries no ID so the remote side creates one
	assert.Empty(t, updated.ID)
	assert.Equal(t, domain.ChainEthereum, updated.Chain)
	assert.Equal(t, domain.NotifyTypeAddressActivity, updated.NotifyType)
	assert.Equal(t, []string{"0xAbCd"}, updated.Addresses)
}

func TestAccumulator_EnsureRegistered_PrependsToOpenBucket(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return([]domain.NotificationSubscription{
			{ID: "bucket-1", Chain: domain.ChainEthereum, NotifyType: domain.NotifyTypeAddressActivity, Addresses: []string{"0xold"}},
		}, nil)

	var updated domain.NotificationSubscription
	registry.EXPECT().
		UpdateNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub domain.NotificationSubscription) error {
			updated = sub
			return nil
		})

	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xnew")

	assert.Equal(t, "bucket-1", updated.ID)
	assert.Equal(t, []string{"0xnew", "0xold"}, updated.Addresses)
}

func TestAccumulator_EnsureRegistered_FullBucketOpensNewOne(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return([]domain.NotificationSubscription{fullBucket("bucket-1")}, nil)

	var updated domain.NotificationSubscription
	registry.EXPECT().
		UpdateNotification(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sub domain.NotificationSubscription) error {
			updated = sub
			return nil
		})

	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xnew")

	// Full buckets are immutable; a fresh one is opened instead
	assert.Empty(t, updated.ID)
	assert.Equal(t, []string{"0xnew"}, updated.Addresses)
}

func TestAccumulator_EnsureRegistered_AlreadyInBucket(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return([]domain.NotificationSubscription{
			{ID: "bucket-1", Chain: domain.ChainEthereum, NotifyType: domain.NotifyTypeAddressActivity, Addresses: []string{"0xKnown", "0xother"}},
		}, nil).
		Times(1)

	// Matching is case-insensitive; no update is issued
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xknown")

	// Every address of the inspected bucket became resident, so a second
	// registration for a sibling address skips the remote roundtrip entirely
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xOTHER")
}

func TestAccumulator_EnsureRegistered_ResidentSuppressesRepeat(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return(nil, nil).
		Times(1)
	registry.EXPECT().
		UpdateNotification(gomock.Any(), gomock.Any()).
		Return(nil).
		Times(1)

	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xsame")
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xsame")
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xSAME")
}

func TestAccumulator_EnsureRegistered_ChainsAreIndependent(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	for _, chain := range []domain.Chain{domain.ChainEthereum, domain.ChainPolygon} {
		registry.EXPECT().
			ListNotifications(gomock.Any(), chain, domain.NotifyTypeAddressActivity).
			Return(nil, nil)
		registry.EXPECT().
			UpdateNotification(gomock.Any(), gomock.Any()).
			Return(nil)
	}

	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xsame")
	accumulator.EnsureRegistered(context.Background(), domain.ChainPolygon, "0xsame")
}

func TestAccumulator_EnsureRegistered_ListFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return(nil, errors.New("registry down"))

	require.NotPanics(t, func() {
		accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xaddr")
	})
}

func TestAccumulator_EnsureRegistered_UpdateFailureRetriesNextTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	registry := mocks.NewMockNotificationRegistry(ctrl)
	accumulator := notification.NewAccumulator(registry)

	registry.EXPECT().
		ListNotifications(gomock.Any(), domain.ChainEthereum, domain.NotifyTypeAddressActivity).
		Return(nil, nil).
		Times(2)
	gomock.InOrder(
		registry.EXPECT().
			UpdateNotification(gomock.Any(), gomock.Any()).
			Return(errors.New("registry down")),
		registry.EXPECT().
			UpdateNotification(gomock.Any(), gomock.Any()).
			Return(nil),
	)

	// The failed registration does not mark the address resident
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xaddr")
	accumulator.EnsureRegistered(context.Background(), domain.ChainEthereum, "0xaddr")
}
