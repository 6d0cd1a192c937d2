package httpapi

import (
	"deaddrop/internal/record"
	"deaddrop/internal/relay"
)

// envelope is the shared response shape for all endpoints.
type envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type postMessageRequest struct {
	Recipient  []byte `json:"recipient"`
	Sender     []byte `json:"sender"`
	Ciphertext []byte `json:"ciphertext"`
	Signature  []byte `json:"signature"`
}

type postMessageData struct {
	ID        []byte `json:"id"`
	CreatedAt int64  `json:"created_at"`
}

type postExchangeKeyRequest struct {
	Recipient    []byte `json:"recipient"`
	Sender       []byte `json:"sender"`
	ExchangeKey  []byte `json:"exchange_key"`
	Signature    []byte `json:"signature"`
	InResponseTo []byte `json:"in_response_to,omitempty"`
}

type postExchangeKeyData struct {
	CreatedAt int64 `json:"created_at"`
}

type fetchRequest struct {
	Recipient []byte   `json:"recipient"`
	Senders   [][]byte `json:"senders,omitempty"`
	Since     *int64   `json:"since,omitempty"`
}

type exchangeKeyDTO struct {
	Sender       []byte `json:"sender"`
	ExchangeKey  []byte `json:"exchange_key"`
	Signature    []byte `json:"signature"`
	InResponseTo []byte `json:"in_response_to,omitempty"`
	CreatedAt    int64  `json:"created_at"`
}

type messageDTO struct {
	ID         []byte `json:"id"`
	Sender     []byte `json:"sender"`
	Ciphertext []byte `json:"ciphertext"`
	Signature  []byte `json:"signature"`
	CreatedAt  int64  `json:"created_at"`
}

type fetchData struct {
	ExchangeKeys []exchangeKeyDTO `json:"exchange_keys"`
	Messages     []messageDTO     `json:"messages"`
}

func toFetchData(res relay.FetchResult) fetchData {
	keys := make([]exchangeKeyDTO, len(res.ExchangeKeys))
	for i, k := range res.ExchangeKeys {
		dto := exchangeKeyDTO{
			Sender:      k.Sender.Slice(),
			ExchangeKey: k.ExchangeKey.Slice(),
			Signature:   k.Signature.Slice(),
			CreatedAt:   int64(k.CreatedAt),
		}
		if k.InResponseTo != nil {
			dto.InResponseTo = k.InResponseTo.Slice()
		}
		keys[i] = dto
	}
	msgs := make([]messageDTO, len(res.Messages))
	for i, m := range res.Messages {
		msgs[i] = messageDTO{
			ID:         m.ID.Slice(),
			Sender:     m.Sender.Slice(),
			Ciphertext: m.Ciphertext,
			Signature:  m.Signature.Slice(),
			CreatedAt:  int64(m.CreatedAt),
		}
	}
	return fetchData{ExchangeKeys: keys, Messages: msgs}
}

func sinceTimestamp(since *int64) *record.Timestamp {
	if since == nil {
		return nil
	}
	ts := record.Timestamp(*since)
	return &ts
}
