package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("NETREPAIR_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting Integration Test...")

	fmt.Println("1. Listing networks...")
	if _, ok := sendRequest(baseURL, "GET", "/networks", nil); !ok {
		fmt.Println("FAILED: List networks")
		os.Exit(1)
	}
	fmt.Println("PASSED: List networks")

	fmt.Println("2. Encoding budding...")
	body, ok := sendRequest(baseURL, "POST", "/encode", map[string]any{
		"network":    "budding",
		"show_costs": true,
	})
	if !ok || !bytes.Contains(body, []byte("% output projection")) {
		fmt.Println("FAILED: Encode")
		os.Exit(1)
	}
	fmt.Println("PASSED: Encode")

	fmt.Println("3. Ranking a canned solver output...")
	output := "Answer: 1\nactivates(1,2) repairCost(0,4) repairCost(1,10) repairCost(2,0) repairCost(3,3) repairCost(4,1) repairCost(5,0) repairCost(6,5)\n" +
		"Answer: 2\nactivates(1,2) repairCost(0,1) repairCost(1,2) repairCost(2,0) repairCost(3,1) repairCost(4,0) repairCost(5,0) repairCost(6,1)\n" +
		"Answer: 3\ninhibits(2,1) repairCost(0,3) repairCost(1,8) repairCost(2,0) repairCost(3,2) repairCost(4,1) repairCost(5,0) repairCost(6,4)\n" +
		"SATISFIABLE\n"
	if _, ok := sendRequest(baseURL, "POST", "/rank", map[string]any{"output": output}); !ok {
		fmt.Println("FAILED: Rank")
		os.Exit(1)
	}
	fmt.Println("PASSED: Rank")

	fmt.Println("4. Evaluating against budding's ground truth...")
	if _, ok := sendRequest(baseURL, "POST", "/evaluate", map[string]any{"network": "budding", "output": output}); !ok {
		fmt.Println("FAILED: Evaluate")
		os.Exit(1)
	}
	fmt.Println("PASSED: Evaluate")
}

func sendRequest(baseURL, method, endpoint string, payload any) ([]byte, bool) {
	var body io.Reader
	if payload != nil {
		jsonBytes, _ := json.Marshal(payload)
		body = bytes.NewBuffer(jsonBytes)
	}

	req, err := http.NewRequest(method, baseURL+endpoint, body)
	if err != nil {
		fmt.Printf("Error creating request: %v\n", err)
		return nil, false
	}
	req.Header.Set("Content-Type", "application/json")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	fmt.Printf("Response: %.200s\n", string(respBody))
	return respBody, true
}
