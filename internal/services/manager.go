package services

import (
	"time"

	"journey/internal/database"
	"journey/internal/utils"
)

type ServiceManager struct {
	Store        *Store
	Goal         *GoalService
	Entry        *EntryService
	Analytics    *AnalyticsService
	Notification *NotificationService
	repository   *database.Repository
}

// NewServiceManager загружает состояние из репозитория и собирает сервисы вокруг одного хранилища
func NewServiceManager(repo *database.Repository, journey Journey, clock func() time.Time) *ServiceManager {
	if clock == nil {
		clock = time.Now
	}
	store := NewStore(repo)
	store.Load()

	return &ServiceManager{
		Store:        store,
		Goal:         NewGoalService(store, clock, journey.Target.Format(utils.DayFormat)),
		Entry:        NewEntryService(store, clock, journey.Location),
		Analytics:    NewAnalyticsService(store, clock, journey),
		Notification: nil,
		repository:   repo,
	}
}

func (sm *ServiceManager) SetNotificationSender(sender NotificationSender) {
	sm.Notification = NewNotificationService(sender, sm.Analytics, sm.Store)
}

func (sm *ServiceManager) Repository() *database.Repository {
	return sm.repository
}
