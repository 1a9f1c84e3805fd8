package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jonathan/jobswipe/internal/types"
)

// -----------------------------------------------------------------------------
// Job Catalog Methods
// -----------------------------------------------------------------------------

// ListCatalogJobs returns every active catalog job in display order
func (db *DB) ListCatalogJobs(ctx context.Context) ([]types.Job, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, title, company, location, salary, job_type, description,
		        requirements, skills, benefits, match_percentage, posted_date,
		        deadline, logo
		 FROM job_catalog
		 WHERE active
		 ORDER BY ordinal, created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list catalog jobs: %w", err)
	}
	defer rows.Close()

	jobs := []types.Job{}
	for rows.Next() {
		var j types.Job
		var jobType string
		var reqJSON, skillsJSON, benefitsJSON []byte
		if err := rows.Scan(&j.ID, &j.Title, &j.Company, &j.Location, &j.Salary, &jobType,
			&j.Description, &reqJSON, &skillsJSON, &benefitsJSON, &j.MatchPercentage,
			&j.PostedDate, &j.Deadline, &j.Logo); err != nil {
			return nil, fmt.Errorf("failed to scan catalog job: %w", err)
		}
		j.Type = types.JobType(jobType)

		// Parse JSONB fields
		if err := decodeStringList(reqJSON, &j.Requirements); err != nil {
			return nil, fmt.Errorf("job %s requirements: %w", j.ID, err)
		}
		if err := decodeStringList(skillsJSON, &j.Skills); err != nil {
			return nil, fmt.Errorf("job %s skills: %w", j.ID, err)
		}
		if err := decodeStringList(benefitsJSON, &j.Benefits); err != nil {
			return nil, fmt.Errorf("job %s benefits: %w", j.ID, err)
		}
		jobs = append(jobs, j)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate catalog jobs: %w", err)
	}

	return jobs, nil
}

// UpsertCatalogJob creates or updates a catalog job at the given display position
func (db *DB) UpsertCatalogJob(ctx context.Context, ordinal int, job types.Job) error {
	reqJSON, err := json.Marshal(nonNil(job.Requirements))
	if err != nil {
		return fmt.Errorf("failed to marshal requirements: %w", err)
	}
	skillsJSON, err := json.Marshal(nonNil(job.Skills))
	if err != nil {
		return fmt.Errorf("failed to marshal skills: %w", err)
	}
	benefitsJSON, err := json.Marshal(nonNil(job.Benefits))
	if err != nil {
		return fmt.Errorf("failed to marshal benefits: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO job_catalog (id, ordinal, title, company, location, salary, job_type,
		                          description, requirements, skills, benefits,
		                          match_percentage, posted_date, deadline, logo)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		 ON CONFLICT (id) DO UPDATE SET
		     ordinal = $2, title = $3, company = $4, location = $5, salary = $6,
		     job_type = $7, description = $8, requirements = $9, skills = $10,
		     benefits = $11, match_percentage = $12, posted_date = $13,
		     deadline = $14, logo = $15, active = TRUE`,
		job.ID, ordinal, job.Title, job.Company, job.Location, job.Salary, string(job.Type),
		job.Description, reqJSON, skillsJSON, benefitsJSON,
		job.MatchPercentage, job.PostedDate, job.Deadline, job.Logo,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert catalog job %s: %w", job.ID, err)
	}
	return nil
}

// DeactivateCatalogJob hides a job from ListCatalogJobs without deleting it
func (db *DB) DeactivateCatalogJob(ctx context.Context, id string) error {
	_, err := db.pool.Exec(ctx, `UPDATE job_catalog SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to deactivate catalog job %s: %w", id, err)
	}
	return nil
}

func decodeStringList(data []byte, out *[]string) error {
	if data == nil {
		*out = []string{}
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return err
	}
	if *out == nil {
		*out = []string{}
	}
	return nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
