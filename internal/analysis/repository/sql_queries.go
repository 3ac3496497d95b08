package repository

const (
	createAnalysisQuery = `INSERT INTO analyses (analysis_id, session_id, video_id, source_url, title, channel, duration,
						overall_score, hooks, moments, created_at)
					VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	getAnalysisByIDQuery = `SELECT analysis_id, session_id, video_id, source_url, title, channel, duration,
						overall_score, hooks, moments, created_at
					FROM analyses WHERE analysis_id = $1`

	getAnalysesBySessionQuery = `SELECT analysis_id, session_id, video_id, source_url, title, channel, duration,
						overall_score, hooks, moments, created_at
					FROM analyses WHERE session_id = $1 ORDER BY created_at DESC OFFSET $2 LIMIT $3`

	getTotalAnalysesBySessionQuery = `SELECT COUNT(analysis_id) FROM analyses WHERE session_id = $1`
)
