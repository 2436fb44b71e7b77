package usecase

import "encoding/json"

func balanceCacheKey(userID string) string {
	return "wallet:balance:" + userID
}

func encodeBalance(b *WalletBalance) ([]byte, error) {
	return json.Marshal(b)
}

func decodeBalance(data []byte) (*WalletBalance, error) {
	var b WalletBalance
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, err
	}
	return &b, nil
}
