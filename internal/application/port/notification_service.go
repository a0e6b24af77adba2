package port

import "github.com/paradoxie/niche-dashboard/internal/application/dto"

// NotificationService определяет интерфейс для отправки уведомлений (Port)
// Реализация в Infrastructure слое (WebSocket Hub)
type NotificationService interface {
	// BroadcastHealth отправляет снимок здоровья портфеля всем клиентам
	BroadcastHealth(snapshot *dto.HealthSnapshotDTO)

	// BroadcastTransition сообщает о смене статуса проекта
	BroadcastTransition(transition *dto.HealthTransitionDTO)

	// ClientCount возвращает количество подключенных клиентов
	ClientCount() int
}
