package sqlinline

const QInsertVisualization = `--sql 13c5a15c-01d7-4f62-8503-ce3c139e56b9
insert into visualizations(
  id,
  source_image_key,
  selected_curbing,
  selected_landscape,
  selected_patio,
  status,
  created_at,
  updated_at
) values (
  $1::uuid,
  $2::text,
  nullif($3::text, ''),
  nullif($4::text, ''),
  nullif($5::text, ''),
  $6::text,
  now(),
  now()
);
`

const QSelectVisualizationByID = `--sql 9f6a518f-ce19-49a5-aeaf-1fbd33f57ce2
select
  id,
  source_image_key,
  coalesce(selected_curbing, ''),
  coalesce(selected_landscape, ''),
  coalesce(selected_patio, ''),
  status,
  coalesce(prediction_id, ''),
  coalesce(result_image_url, ''),
  coalesce(error_kind, ''),
  coalesce(error_message, ''),
  coalesce(segmentation_note, ''),
  created_at,
  updated_at
from visualizations
where id = $1::uuid
limit 1;
`

const QUpdateVisualizationOutcome = `--sql 2744091c-a815-4821-9a94-9087ab711b10
update visualizations
set
  status = $2::text,
  prediction_id = nullif($3::text, ''),
  result_image_url = nullif($4::text, ''),
  error_kind = nullif($5::text, ''),
  error_message = nullif($6::text, ''),
  segmentation_note = nullif($7::text, ''),
  updated_at = now()
where id = $1::uuid;
`
