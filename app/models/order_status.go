package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the lifecycle state of an order. Only the canonical codes
// below are persisted.
type OrderStatus string

const (
	StatusNew        OrderStatus = "NEW"
	StatusInProgress OrderStatus = "IN_PROGRESS"
	StatusShipped    OrderStatus = "SHIPPED"
	StatusDelivered  OrderStatus = "DELIVERED"
	StatusCancelled  OrderStatus = "CANCELLED"
)

var orderStatuses = []OrderStatus{StatusNew, StatusInProgress, StatusShipped, StatusDelivered, StatusCancelled}

// statusAliases maps the labels the storefront and older clients send.
var statusAliases = map[string]OrderStatus{
	"новый":       StatusNew,
	"new":         StatusNew,
	"в обработке": StatusInProgress,
	"in progress": StatusInProgress,
	"in_progress": StatusInProgress,
	"processing":  StatusInProgress,
	"отправлен":   StatusShipped,
	"shipped":     StatusShipped,
	"доставлен":   StatusDelivered,
	"delivered":   StatusDelivered,
	"отменен":     StatusCancelled,
	"отменён":     StatusCancelled,
	"cancelled":   StatusCancelled,
	"canceled":    StatusCancelled,
}

// transitions lists the allowed targets of each status, itself included.
var transitions = map[OrderStatus][]OrderStatus{
	StatusNew:        {StatusNew, StatusInProgress, StatusShipped, StatusDelivered, StatusCancelled},
	StatusInProgress: {StatusInProgress, StatusShipped, StatusDelivered, StatusCancelled},
	StatusShipped:    {StatusShipped, StatusDelivered, StatusCancelled},
	StatusDelivered:  {StatusDelivered},
	StatusCancelled:  {StatusCancelled},
}

// OrderStatuses lists the canonical statuses in lifecycle order.
func OrderStatuses() []OrderStatus {
	return append([]OrderStatus(nil), orderStatuses...)
}

// ParseOrderStatus normalises a canonical code or a known label.
func ParseOrderStatus(s string) (OrderStatus, error) {
	trimmed := strings.TrimSpace(s)
	for _, known := range orderStatuses {
		if strings.EqualFold(trimmed, string(known)) {
			return known, nil
		}
	}
	if st, ok := statusAliases[strings.ToLower(trimmed)]; ok {
		return st, nil
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) Valid() bool {
	_, ok := transitions[s]
	return ok
}

func (s OrderStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanTransition reports whether an order in s may move to next.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Delivers reports whether moving from s to next is the delivery event.
func (s OrderStatus) Delivers(next OrderStatus) bool {
	return s != StatusDelivered && next == StatusDelivered
}
