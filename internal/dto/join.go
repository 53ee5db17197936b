package dto

import "github.com/Zozo-Cat/trading-tracker-sub002/internal/services"

// RedeemCodeRequest is the redeem-code body. group_type/group_id are an
// optional assertion that the code belongs to a specific group.
type RedeemCodeRequest struct {
	Code      string             `json:"code" binding:"required"`
	GroupType services.GroupType `json:"group_type"`
	GroupID   *uint64            `json:"group_id"`
}

// RedeemCodeResponse reports the outcome of a redemption
type RedeemCodeResponse struct {
	GroupType services.GroupType `json:"group_type"`
	GroupID   uint64             `json:"group_id"`
	Added     bool               `json:"added"`
	Message   string             `json:"message"`
}

// LeaveGroupRequest is the leave-group body
type LeaveGroupRequest struct {
	GroupType services.GroupType `json:"group_type" binding:"required"`
	GroupID   uint64             `json:"group_id" binding:"required"`
}
