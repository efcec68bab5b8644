package service

import "github.com/shopnext/internal/constants"

// allowedTransitions 订单状态机：键为当前状态，值为可迁移到的目标状态集合。
// 已取消与已退款为终态。
var allowedTransitions = map[string][]string{
	constants.OrderStatusPending: {
		constants.OrderStatusConfirmed,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusConfirmed: {
		constants.OrderStatusProcessing,
		constants.OrderStatusShipped,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusProcessing: {
		constants.OrderStatusShipped,
		constants.OrderStatusCancelled,
	},
	constants.OrderStatusShipped: {
		constants.OrderStatusDelivered,
	},
	constants.OrderStatusDelivered: {
		constants.OrderStatusRefunded,
	},
	constants.OrderStatusCancelled: {},
	constants.OrderStatusRefunded:  {},
}

// isTransitionAllowed 判断状态迁移是否合法，相同状态视为合法的空操作
func isTransitionAllowed(current, target string) bool {
	if current == target {
		return true
	}
	targets, ok := allowedTransitions[current]
	if !ok {
		return false
	}
	for _, t := range targets {
		if t == target {
			return true
		}
	}
	return false
}
