package transport

type CreateOrderItem struct {
	ProductID uint `json:"product_id"`
	Quantity  uint `json:"quantity"`
}

type CreateOrderRequest struct {
	UserID          uint              `json:"user_id"`
	CustomerName    string            `json:"customer_name"`
	CustomerPhone   string            `json:"customer_phone"`
	DeliveryAddress string            `json:"delivery_address"`
	DeliveryNotes   string            `json:"delivery_notes,omitempty"`
	Items           []CreateOrderItem `json:"items"`
}

type TransitionRequest struct {
	Status  string `json:"status"`
	ActorID uint   `json:"actor_id"`
	Notes   string `json:"notes,omitempty"`
}
