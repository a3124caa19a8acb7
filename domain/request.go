package domain

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=64"`
	Password string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type PurchaseRequest struct {
	ChapterId string `json:"chapter_id" binding:"required"`
}

type DepositRequest struct {
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Description string `json:"description"`
}

type GrantRequest struct {
	UserId string `json:"user_id" binding:"required"`
	Amount int64  `json:"amount" binding:"required,gt=0"`
	Note   string `json:"note"`
}

type CreateStoryRequest struct {
	Title    string `json:"title" binding:"required"`
	Author   string `json:"author"`
	Synopsis string `json:"synopsis"`
}

type CreateChapterRequest struct {
	StoryId string `json:"story_id" binding:"required"`
	Title   string `json:"title" binding:"required"`
	Price   uint   `json:"price"`
	Content string `json:"content" binding:"required"`
}

type SetPriceRequest struct {
	Price uint `json:"price"`
}
