package dto

import "time"

type SendChatRequest struct {
	SessionId string `json:"session_id" validate:"required"`
	Question  string `json:"question" validate:"required,max=4000"`
}

type SendChatResponse struct {
	SessionId     string    `json:"session_id"`
	Answer        string    `json:"answer"`
	CitedChunkIds []string  `json:"cited_chunk_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}

type GetChatHistoryResponse struct {
	SessionId string            `json:"session_id"`
	Turns     []ChatHistoryTurn `json:"turns"`
}

type ChatHistoryTurn struct {
	Id            string    `json:"id"`
	Question      string    `json:"question"`
	Answer        string    `json:"answer"`
	CitedChunkIds []string  `json:"cited_chunk_ids,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
