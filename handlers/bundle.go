package handlers

// HandlerBundle groups the endpoint handlers into one struct consumed by
// the routes package.
type HandlerBundle struct {
	Booking      *BookingHandler
	Expert       *ExpertHandler
	Admin        *AdminHandler
	Notification *NotificationHandler
}
