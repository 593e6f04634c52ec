package repository

// Factory describes access to different domain repositories.
type Factory interface {
	Orders() OrderRepository
	Products() ProductRepository
	Customers() CustomerRepository
	DeliveryOptions() DeliveryRepository
}
