// seed_project.go is a standalone script that creates a project from a YAML
// file, submits every matrix through the Arbiter API and optionally evaluates it.
//
// Usage:
//
//	go run scripts/seed_project.go -file scripts/vendor_selection.yaml -api http://localhost:8700 -evaluate
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// projectFile lists judgments as strings so fractions like "1/3" survive YAML.
type projectFile struct {
	Name                 string              `yaml:"name"`
	Description          string              `yaml:"description"`
	Criteria             []string            `yaml:"criteria"`
	Alternatives         []string            `yaml:"alternatives"`
	CriteriaJudgments    []string            `yaml:"criteria_judgments"`
	AlternativeJudgments map[string][]string `yaml:"alternative_judgments"`
}

type createdProject struct {
	ID string `json:"id"`
}

func main() {
	file := flag.String("file", "scripts/vendor_selection.yaml", "path to project YAML")
	apiURL := flag.String("api", "http://localhost:8700", "Arbiter API base URL")
	clientID := flag.String("client", "seed", "X-Client-ID header value")
	evaluate := flag.Bool("evaluate", false, "evaluate the project after seeding")
	dryRun := flag.Bool("dry-run", false, "print the project without posting")
	flag.Parse()

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("read %s: %v", *file, err)
	}
	var pf projectFile
	if err := yaml.Unmarshal(data, &pf); err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	if *dryRun {
		fmt.Printf("%s: %d criteria, %d alternatives\n", pf.Name, len(pf.Criteria), len(pf.Alternatives))
		fmt.Printf("  criteria: %v\n", pf.CriteriaJudgments)
		for _, c := range pf.Criteria {
			fmt.Printf("  %s: %v\n", c, pf.AlternativeJudgments[c])
		}
		return
	}

	c := &client{base: *apiURL, id: *clientID, http: &http.Client{}}

	var p createdProject
	if err := c.do("POST", "/api/v1/projects", map[string]interface{}{
		"name":         pf.Name,
		"description":  pf.Description,
		"criteria":     pf.Criteria,
		"alternatives": pf.Alternatives,
	}, http.StatusCreated, &p); err != nil {
		log.Fatalf("create project: %v", err)
	}
	log.Printf("created project %s (%s)", pf.Name, p.ID)

	base := "/api/v1/projects/" + p.ID
	if len(pf.CriteriaJudgments) > 0 {
		if err := c.do("PUT", base+"/matrices/criteria", map[string]interface{}{"judgments": pf.CriteriaJudgments}, http.StatusOK, nil); err != nil {
			log.Fatalf("criteria matrix: %v", err)
		}
	}
	submitted := 0
	for _, crit := range pf.Criteria {
		js, ok := pf.AlternativeJudgments[crit]
		if !ok {
			log.Printf("skip %q: no judgments", crit)
			continue
		}
		path := base + "/matrices/alternatives/" + url.PathEscape(crit)
		if err := c.do("PUT", path, map[string]interface{}{"judgments": js}, http.StatusOK, nil); err != nil {
			log.Fatalf("matrix %q: %v", crit, err)
		}
		submitted++
	}
	log.Printf("submitted %d of %d alternative matrices", submitted, len(pf.Criteria))

	if !*evaluate {
		return
	}
	var res struct {
		Evaluation struct {
			Consistent bool     `json:"consistent"`
			Warnings   []string `json:"warnings"`
			Ranking    struct {
				Ranking []struct {
					Rank        int     `json:"rank"`
					Alternative string  `json:"alternative"`
					Score       float64 `json:"score"`
				} `json:"ranking"`
			} `json:"ranking"`
		} `json:"evaluation"`
	}
	if err := c.do("POST", base+"/evaluate", nil, http.StatusOK, &res); err != nil {
		log.Fatalf("evaluate: %v", err)
	}
	for _, r := range res.Evaluation.Ranking.Ranking {
		fmt.Printf("%d. %-20s %.4f\n", r.Rank, r.Alternative, r.Score)
	}
	for _, w := range res.Evaluation.Warnings {
		fmt.Printf("warning: %s\n", w)
	}
}

type client struct {
	base string
	id   string
	http *http.Client
}

func (c *client) do(method, path string, body interface{}, want int, out interface{}) error {
	var rdr io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, c.base+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Client-ID", c.id)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		msg, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("status %d: %s", resp.StatusCode, bytes.TrimSpace(msg))
	}
	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
