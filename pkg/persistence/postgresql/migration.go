package postgresql

func migrations() map[int]string {
	return map[int]string{
		1: `
			-- Workflow definitions
			CREATE TABLE workflows (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				entity_type VARCHAR(100) NOT NULL,
				status VARCHAR(50) NOT NULL CHECK (status IN ('draft', 'active', 'inactive')),
				priority INT NOT NULL DEFAULT 0,
				trigger_logic VARCHAR(10) NOT NULL DEFAULT '',
				is_system BOOLEAN NOT NULL DEFAULT FALSE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL,
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_workflows_entity_type_status ON workflows(entity_type, status);

			CREATE TABLE triggers (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				trigger_type VARCHAR(50) NOT NULL,
				conditions JSONB,
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			);

			CREATE INDEX idx_triggers_workflow_id ON triggers(workflow_id);

			CREATE TABLE actions (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				action_type VARCHAR(50) NOT NULL,
				action_config JSONB,
				execution_order INT NOT NULL DEFAULT 0,
				delay_minutes INT NOT NULL DEFAULT 0,
				condition_expression TEXT NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE
			);

			CREATE INDEX idx_actions_workflow_id ON actions(workflow_id);

			CREATE TABLE schedules (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL REFERENCES workflows(id) ON DELETE CASCADE,
				cron_expression VARCHAR(255) NOT NULL,
				timezone VARCHAR(100) NOT NULL DEFAULT '',
				is_active BOOLEAN NOT NULL DEFAULT TRUE,
				last_run_at TIMESTAMP WITH TIME ZONE,
				next_run_at TIMESTAMP WITH TIME ZONE
			);

			CREATE UNIQUE INDEX idx_schedules_workflow_id ON schedules(workflow_id);
			CREATE INDEX idx_schedules_next_run_at ON schedules(next_run_at) WHERE is_active;

			-- Execution audit records, engine-owned
			CREATE TABLE executions (
				id VARCHAR(255) PRIMARY KEY,
				workflow_id VARCHAR(255) NOT NULL,
				entity_type VARCHAR(100) NOT NULL,
				entity_id VARCHAR(255) NOT NULL,
				status VARCHAR(50) NOT NULL,
				triggered_by VARCHAR(255) NOT NULL DEFAULT '',
				triggered_at TIMESTAMP WITH TIME ZONE NOT NULL,
				completed_at TIMESTAMP WITH TIME ZONE,
				execution_log JSONB,
				error_message TEXT NOT NULL DEFAULT '',
				execution_time_ms BIGINT NOT NULL DEFAULT 0
			);

			CREATE INDEX idx_executions_workflow_id ON executions(workflow_id);
			CREATE INDEX idx_executions_entity ON executions(entity_type, entity_id);
			CREATE INDEX idx_executions_triggered_at ON executions(triggered_at);

			-- Entity snapshots the action handlers read and mutate
			CREATE TABLE entities (
				entity_type VARCHAR(100) NOT NULL,
				id VARCHAR(255) NOT NULL,
				data JSONB NOT NULL DEFAULT '{}',
				updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
				PRIMARY KEY (entity_type, id)
			);

			CREATE TABLE users (
				id VARCHAR(255) PRIMARY KEY,
				name VARCHAR(255) NOT NULL DEFAULT '',
				email VARCHAR(255) NOT NULL DEFAULT '',
				role VARCHAR(100) NOT NULL DEFAULT ''
			);

			CREATE INDEX idx_users_role ON users(role);

			CREATE TABLE tasks (
				id VARCHAR(255) PRIMARY KEY,
				title VARCHAR(255) NOT NULL,
				description TEXT NOT NULL DEFAULT '',
				entity_type VARCHAR(100) NOT NULL DEFAULT '',
				entity_id VARCHAR(255) NOT NULL DEFAULT '',
				assignee_id VARCHAR(255) NOT NULL DEFAULT '',
				status VARCHAR(50) NOT NULL DEFAULT 'open',
				due_at TIMESTAMP WITH TIME ZONE,
				created_at TIMESTAMP WITH TIME ZONE NOT NULL
			);

			CREATE INDEX idx_tasks_assignee_id ON tasks(assignee_id);
		`,
	}
}
