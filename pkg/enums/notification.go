package enums

// NotificationType is stored in notifications.type.
type NotificationType string

const (
	NotificationTypeOrderStatusChanged NotificationType = "order_status_changed"
	NotificationTypeStockLow           NotificationType = "stock_low"
	NotificationTypeStockHigh          NotificationType = "stock_high"
)

var notificationTypes = []NotificationType{
	NotificationTypeOrderStatusChanged,
	NotificationTypeStockLow,
	NotificationTypeStockHigh,
}

func (n NotificationType) IsValid() bool {
	_, err := ParseNotificationType(string(n))
	return err == nil
}

func ParseNotificationType(value string) (NotificationType, error) {
	return parse("notification type", value, notificationTypes)
}
