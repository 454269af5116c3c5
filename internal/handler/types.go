package handler

import (
	"startup-sim/internal/models"
	"startup-sim/internal/service"
)

// --- Request structs ---

type initializeRequest struct {
	IdeaText     string  `json:"ideaText" binding:"required"`
	TargetMarket string  `json:"targetMarket"`
	Budget       float64 `json:"budget" binding:"required,gt=0"`
	CurrencyCode string  `json:"currencyCode"`
	Archetype    string  `json:"archetype"`
}

type decisionsRequest struct {
	MarketingSpend *float64       `json:"marketingSpend"`
	RnDSpend       *float64       `json:"rndSpend"`
	PricePerUser   *float64       `json:"pricePerUser"`
	Team           []teamMemberIn `json:"team"`
}

type teamMemberIn struct {
	Role   string  `json:"role" binding:"required"`
	Count  int     `json:"count"`
	Salary float64 `json:"salary"`
}

func (m teamMemberIn) toModel() models.TeamMember {
	return models.TeamMember{Role: m.Role, Count: m.Count, Salary: m.Salary}
}

type resolveSurpriseEventRequest struct {
	Accepted *bool `json:"accepted" binding:"required"`
}

type saveSnapshotRequest struct {
	Name string `json:"name" binding:"required"`
}

type advisorRequest struct {
	Topic    string `json:"topic"`
	Question string `json:"question" binding:"required"`
}

// --- Response structs ---

type advisorResponse struct {
	Answer string `json:"answer"`
}

type statusResponse struct {
	Status string `json:"status"`
}

func (r decisionsRequest) toLevers() service.DecisionLevers {
	levers := service.DecisionLevers{
		MarketingSpend: r.MarketingSpend,
		RnDSpend:       r.RnDSpend,
		PricePerUser:   r.PricePerUser,
	}
	for _, m := range r.Team {
		levers.Team = append(levers.Team, m.toModel())
	}
	return levers
}
