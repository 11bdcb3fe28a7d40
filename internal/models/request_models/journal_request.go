package request_models

type CreatePlanRequest struct {
	Name       string `json:"name" binding:"required,max=128"`
	Company    string `json:"company" binding:"max=256"`
	Department string `json:"department" binding:"max=256"`
	Field      string `json:"field" binding:"max=256"`
}

type UpdateProfileRequest = CreatePlanRequest

// EditPlanRequest changes the structural fields of a day. Omitted fields are
// left unchanged.
type EditPlanRequest struct {
	Category        *string `json:"category" binding:"omitempty,oneof=production management"`
	SpecificTopic   *string `json:"specific_topic" binding:"omitempty,min=3,max=256"`
	CustomDirective *string `json:"custom_directive" binding:"omitempty,max=1000"`
}

type EditContentRequest struct {
	Content   string  `json:"content" binding:"max=20000"`
	WorkTitle *string `json:"work_title" binding:"omitempty,max=256"`
}
