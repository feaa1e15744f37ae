package queue

import "encoding/json"

func encode(msg Message) (string, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func decode(s string) (Message, error) {
	var msg Message
	err := json.Unmarshal([]byte(s), &msg)
	return msg, err
}
