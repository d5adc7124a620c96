package constants

// 用户状态常量
const (
	UserStatusActive   = "active"
	UserStatusDisabled = "disabled"
)

// 商品排序常量
const (
	ProductOrderPriceAsc      = "price"
	ProductOrderPriceDesc     = "-price"
	ProductOrderCreatedAtAsc  = "created_at"
	ProductOrderCreatedAtDesc = "-created_at"
)

// 队列名称常量
const (
	QueueDefault = "default"
)

// 异步任务类型常量
const (
	TaskCartExpire = "cart:expire"
)
