package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"gitlab.com/dirk.krummacker/contacts-app/pkg/model"
)

// Usage example on the command line, with the service running:
// > go run main.go -port=8080
func main() {
	port := flag.Int("port", 8080, "the port of the contacts service")
	flag.Parse()
	baseURL := fmt.Sprintf("http://localhost:%d", *port)

	fmt.Println()
	fmt.Println("  Elements    SUBMIT      DRAG   RELEASE    DELETE")
	fmt.Println("---------------------------------------------------")
	sizes := []int{100, 500, 1000, 5000}
	formBody := []byte(`{
		"name": "Juan Dela Cruz",
		"phone": "+63 912 345 6789"
	}`)
	for _, loops := range sizes {
		fmt.Printf("%10d", loops)
		ids := make([]string, 0, loops)
		{
			// form submissions in create mode
			var duration int64
			for i := 0; i < loops; i++ {
				id, d := sendSubmitRequest(baseURL, bytes.NewReader(formBody))
				ids = append(ids, id)
				duration += d
			}
			fmt.Printf("%10d", duration/int64(loops*1000))
		}
		rand.Shuffle(len(ids), func(i, j int) {
			ids[i], ids[j] = ids[j], ids[i]
		})
		{
			// drag frames
			f := func(id string) int64 {
				return sendRowRequest(baseURL, id, "drag", bytes.NewReader([]byte(`{"dx": -80}`)))
			}
			callInLoop(ids, f)
		}
		{
			// releases beyond the threshold
			f := func(id string) int64 {
				return sendRowRequest(baseURL, id, "release", bytes.NewReader([]byte(`{"dx": -80}`)))
			}
			callInLoop(ids, f)
		}
		{
			// taps on the delete affordance
			f := func(id string) int64 {
				return sendRowRequest(baseURL, id, "delete", nil)
			}
			callInLoop(ids, f)
		}
		fmt.Println()
		waitUntilEmpty(baseURL)
	}
}

func callInLoop(ids []string, f func(id string) int64) {
	var duration int64
	for _, id := range ids {
		d := f(id)
		duration += d
	}
	fmt.Printf("%10d", duration/int64(len(ids)*1000))
}

// waitUntilEmpty polls the contact list until all exit animations have completed.
func waitUntilEmpty(baseURL string) {
	for {
		resBody, _ := sendRequest(http.MethodGet, baseURL+"/contacts", nil)
		var contacts []model.Contact
		if err := json.Unmarshal(resBody, &contacts); err != nil {
			fmt.Println("could not unmarshal JSON", err)
			panic(err)
		}
		if len(contacts) == 0 {
			return
		}
		time.Sleep(50 * time.Millisecond)
	}
}

func sendSubmitRequest(baseURL string, bodyReader io.Reader) (string, int64) {
	resBody, duration := sendRequest(http.MethodPost, baseURL+"/form/submit", bodyReader)
	var contact model.Contact
	err := json.Unmarshal(resBody, &contact)
	if err != nil {
		fmt.Println("could not unmarshal JSON", err)
		panic(err)
	}
	return contact.Id, duration
}

func sendRowRequest(baseURL string, id string, intent string, bodyReader io.Reader) int64 {
	requestURL := fmt.Sprintf("%s/rows/%s/%s", baseURL, id, intent)
	_, duration := sendRequest(http.MethodPost, requestURL, bodyReader)
	return duration
}

func sendRequest(method string, requestURL string, bodyReader io.Reader) ([]byte, int64) {
	req, err := http.NewRequest(method, requestURL, bodyReader)
	if err != nil {
		fmt.Println("could not create request", err)
		panic(err)
	}
	req.Header.Set("Content-Type", "application/json")
	before := time.Now().UnixNano()
	res, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Println("error making http request", err)
		panic(err)
	}
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	if err != nil {
		fmt.Println("could not read response body", err)
		panic(err)
	}
	after := time.Now().UnixNano()
	return resBody, after - before
}
