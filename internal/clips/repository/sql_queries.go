package repository

const (
	createJobQuery = `INSERT INTO clip_jobs (job_id, session_id, analysis_id, label, start_sec, end_sec, score, tags,
						aspect_ratio, resolution, status, result_ref, failure_reason, failure_message, created_at, updated_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`

	updateJobQuery = `UPDATE clip_jobs
					SET status = $2,
					    result_ref = $3,
					    failure_reason = $4,
					    failure_message = $5,
					    updated_at = $6
					WHERE job_id = $1`

	getJobByIDQuery = `SELECT job_id, session_id, analysis_id, label, start_sec, end_sec, score, tags,
						aspect_ratio, resolution, status, result_ref, failure_reason, failure_message, created_at, updated_at
					FROM clip_jobs WHERE job_id = $1`

	getJobsBySessionQuery = `SELECT job_id, session_id, analysis_id, label, start_sec, end_sec, score, tags,
						aspect_ratio, resolution, status, result_ref, failure_reason, failure_message, created_at, updated_at
					FROM clip_jobs WHERE session_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	getTotalJobsBySessionQuery = `SELECT COUNT(job_id) FROM clip_jobs WHERE session_id = $1`
)
