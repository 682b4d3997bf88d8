package games

const createGameTable = `
CREATE TABLE IF NOT EXISTS games (
  game_id varchar not null,
  snake_id varchar not null,
  snake_name varchar,
  ruleset varchar,
  map varchar,
  width int,
  height int,
  timeout int,
  started datetime,
  ended datetime,
  turns int,
  moves int,
  fallbacks int,
  timeouts int,
  failures int,
  result string,
  PRIMARY KEY (game_id, snake_id)
)`

const createResultsView = `
CREATE VIEW IF NOT EXISTS snake_results (
  snake, game_id, win, loss, draw, turns, fallbacks, timeouts
) AS
SELECT snake_name, game_id,
       CASE result WHEN 'win' THEN 1 ELSE 0 END,
       CASE result WHEN 'loss' THEN 1 ELSE 0 END,
       CASE result WHEN 'draw' THEN 1 ELSE 0 END,
       turns, fallbacks, timeouts
 FROM games
`

const insertStmt = `
INSERT OR REPLACE INTO games (
  game_id, snake_id, snake_name,
  ruleset, map, width, height, timeout,
  started, ended,
  turns, moves, fallbacks, timeouts, failures,
  result
)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)
`

const selectSummaries = `
SELECT snake,
       COUNT(*) AS games,
       SUM(win) AS wins,
       SUM(loss) AS losses,
       SUM(draw) AS draws,
       AVG(turns) AS turns,
       SUM(fallbacks) AS fallbacks,
       SUM(timeouts) AS timeouts
FROM snake_results
GROUP BY snake
ORDER BY snake
`

const selectRecent = `
SELECT * FROM games
ORDER BY ended DESC
LIMIT ?
`
