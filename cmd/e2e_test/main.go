package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

const baseURL = "http://localhost:8080"

func main() {
	// Wait for server to start
	time.Sleep(2 * time.Second)

	// 1. Health Check
	checkEndpoint("GET", "/health", nil, 200)

	// 2. Describe a security and record three closes
	symbol := "E2ETEST"
	checkEndpoint("PUT", "/securities/"+symbol, map[string]interface{}{
		"name":        "End To End Corp",
		"sector":      "Technology",
		"industry":    "Software",
		"asset_class": "equity",
	}, 200)
	now := time.Now().UTC()
	for i, price := range []string{"100.00", "104.50", "110.00"} {
		checkEndpoint("POST", "/prices", map[string]interface{}{
			"symbol":    symbol,
			"price":     price,
			"timestamp": now.AddDate(0, 0, i-3).Format(time.RFC3339),
		}, 201)
	}

	// 3. Accumulate a holding
	userID := fmt.Sprintf("e2e-user-%d", now.UnixNano())
	addHolding(userID, symbol, 10)
	addHolding(userID, symbol, 5)

	// 4. Get Portfolio
	checkEndpoint("GET", "/portfolio/"+userID, nil, 200)

	// 5. Stock info
	checkEndpoint("GET", "/stocks/"+symbol, nil, 200)

	// 6. Analytics
	body := checkEndpoint("GET", "/analytics/"+userID+"?dimension=industry&weighting=value", nil, 200)
	var res map[string]interface{}
	if err := json.Unmarshal(body, &res); err != nil {
		log.Fatalf("decode analytics: %v", err)
	}
	growth, _ := res["growth"].(map[string]interface{})
	if growth["growth_rate_percent"] != 10.0 {
		log.Fatalf("expected growth 10%%, got %v", res["growth"])
	}

	// 7. Bad option
	checkEndpoint("GET", "/analytics/"+userID+"?dimension=planet", nil, 400)

	fmt.Println("ALL TESTS PASSED")
}

func checkEndpoint(method, path string, body interface{}, expectedStatus int) []byte {
	fmt.Printf("Testing %s %s...\n", method, path)
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, baseURL+path, bodyReader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		log.Fatalf("Request failed: %v", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != expectedStatus {
		log.Fatalf("Expected status %d, got %d. Body: %s", expectedStatus, resp.StatusCode, string(respBody))
	}
	fmt.Printf("Response: %s\n", string(respBody))
	return respBody
}

func addHolding(userID, symbol string, quantity int64) {
	fmt.Printf("Adding %d %s...\n", quantity, symbol)
	reqBody := map[string]interface{}{
		"user_id":  userID,
		"symbol":   symbol,
		"quantity": quantity,
	}
	jsonBody, _ := json.Marshal(reqBody)
	resp, err := http.Post(baseURL+"/holdings", "application/json", bytes.NewBuffer(jsonBody))
	if err != nil {
		log.Fatalf("Add holding failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 201 {
		body, _ := io.ReadAll(resp.Body)
		log.Fatalf("Add holding failed with status %d: %s", resp.StatusCode, string(body))
	}
}
